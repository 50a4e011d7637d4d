package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- Variables Globales ---
var (
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client
	Elastic     *elasticsearch.Client
	MinIO       *minio.Client
)

// --- Initialisation ---
func ConnectDatabases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. MongoDB (store principal : users, products, carts, orders)
	connectMongo(ctx)

	// 2. Redis (rate limiting, cache produits, pub/sub panier)
	connectRedis(ctx)

	// 3. Elasticsearch (recherche produits)
	connectElastic()

	// 4. MinIO (images produits)
	connectMinIO(ctx)

	log.Println("✅ Toutes les bases de données sont connectées")
}

// =============================================
// MONGODB
// =============================================
func connectMongo(ctx context.Context) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("❌ Erreur connexion MongoDB:", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("❌ MongoDB injoignable:", err)
	}

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "ghariyaal"
	}

	MongoClient = client
	MongoDB = client.Database(dbName)

	ensureIndexes(ctx)
	log.Println("✅ Connecté à MongoDB :", dbName)
}

// ensureIndexes déclare les contraintes du schéma :
// email unique, panier unique par utilisateur, index texte name+description
func ensureIndexes(ctx context.Context) {
	unique := options.Index().SetUnique(true)

	if _, err := Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		log.Println("⚠️ Erreur index users.email:", err)
	}

	if _, err := Carts().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: unique,
	}); err != nil {
		log.Println("⚠️ Erreur index carts.user:", err)
	}

	if _, err := Products().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
	}); err != nil {
		log.Println("⚠️ Erreur index texte products:", err)
	}
}

// --- Accès collections ---

func Users() *mongo.Collection {
	return MongoDB.Collection("users")
}

func Products() *mongo.Collection {
	return MongoDB.Collection("products")
}

func Carts() *mongo.Collection {
	return MongoDB.Collection("carts")
}

func Orders() *mongo.Collection {
	return MongoDB.Collection("orders")
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Fatal("❌ Erreur connexion Redis:", err)
	}
	log.Println("✅ Connecté à Redis")
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic() {
	cfg := elasticsearch.Config{
		Addresses: []string{os.Getenv("ELASTIC_URL")},
		Username:  os.Getenv("ELASTIC_USER"),
		Password:  os.Getenv("ELASTIC_PASSWORD"),
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		log.Fatal("❌ Erreur création client Elasticsearch:", err)
	}

	res, err := client.Info()
	if err != nil {
		// La recherche Elastic est optionnelle : on dégrade sur la recherche Mongo
		log.Println("⚠️ Elasticsearch injoignable, recherche avancée désactivée:", err)
		return
	}
	defer res.Body.Close()

	Elastic = client
	log.Println("✅ Connecté à Elasticsearch")
}

// =============================================
// MINIO
// =============================================
func connectMinIO(ctx context.Context) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		log.Println("⚠️ MinIO non configuré, upload d'images désactivé")
		return
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Fatal("❌ Erreur connexion MinIO:", err)
	}

	bucketName := os.Getenv("MINIO_BUCKET")
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("❌ Erreur vérification bucket MinIO:", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Fatal("❌ Erreur création bucket MinIO:", err)
		}
		log.Println("🪣 Bucket créé :", bucketName)
	} else {
		log.Println("🪣 Bucket MinIO déjà présent :", bucketName)
	}

	MinIO = client
	log.Println("✅ Connecté à MinIO :", endpoint)
}

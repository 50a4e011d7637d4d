package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path"

	"ghariyaal_back_end/internal/database"

	"github.com/minio/minio-go/v7"
)

// UploadProductImage stocke l'image d'un produit dans le bucket MinIO et
// retourne l'URL publique à persister sur le produit
func UploadProductImage(productID string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := path.Join("products", productID+path.Ext(file.Filename))

	_, err = database.MinIO.PutObject(context.Background(), bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket, objectName)
	return url, nil
}

package handlers

import (
	"testing"

	"ghariyaal_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParsePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int
		wantLimit int
	}{
		{"defaults on empty", "", "", 1, defaultPageLimit},
		{"explicit values", "2", "20", 2, 20},
		{"zero page coerced", "0", "10", 1, 10},
		{"negative limit coerced", "1", "-5", 1, defaultPageLimit},
		{"limit capped", "1", "500", 1, maxPageLimit},
		{"garbage coerced", "abc", "xyz", 1, defaultPageLimit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, limit := parsePagination(tt.pageStr, tt.limitStr)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParseSortParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sort string
		want bson.D
	}{
		{"default newest first", "", bson.D{{Key: "created_at", Value: -1}}},
		{"ascending field", "price", bson.D{{Key: "price", Value: 1}}},
		{"descending field", "-price", bson.D{{Key: "price", Value: -1}}},
		{"multiple fields", "price,-created_at", bson.D{{Key: "price", Value: 1}, {Key: "created_at", Value: -1}}},
		{"blank segments ignored", " , - ,name", bson.D{{Key: "name", Value: 1}}},
		{"only garbage falls back", ",-,", bson.D{{Key: "created_at", Value: -1}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseSortParam(tt.sort))
		})
	}
}

func TestValidateProductInput(t *testing.T) {
	t.Parallel()

	valid := models.Product{
		Name:        "Chrono Steel",
		Description: "Montre acier 42mm",
		Price:       4999.50,
		Category:    models.CategoryMen,
		ImageURL:    "https://cdn.ghariyaal.com/chrono.jpg",
		Stock:       10,
	}

	assert.Empty(t, validateProductInput(valid))

	tests := []struct {
		name   string
		mutate func(*models.Product)
		want   string
	}{
		{"missing name", func(p *models.Product) { p.Name = "  " }, "Product name is required"},
		{"missing description", func(p *models.Product) { p.Description = "" }, "Product description is required"},
		{"negative price", func(p *models.Product) { p.Price = -1 }, "Price cannot be negative"},
		{"unknown category", func(p *models.Product) { p.Category = "Kids" }, "Category must be either Men or Women"},
		{"missing image", func(p *models.Product) { p.ImageURL = "" }, "Image URL is required"},
		{"negative stock", func(p *models.Product) { p.Stock = -3 }, "Stock cannot be negative"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tt.mutate(&p)
			assert.Equal(t, tt.want, validateProductInput(p))
		})
	}
}

package productrepo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"techproducts/internal/domain"
)

func TestDocToProduct_CompleteDocument(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	doc := bson.M{
		"product_id": int32(7),
		"name":       "Burger",
		"price":      25.90,
		"category":   domain.CategoryLanche,
		"created_at": primitive.NewDateTimeFromTime(created),
		"updated_at": created,
	}

	product, ok := docToProduct(doc)

	assert.True(t, ok)
	assert.Equal(t, 7, product.ID)
	assert.Equal(t, "Burger", product.Name)
	assert.Equal(t, 25.90, product.Price)
	assert.Equal(t, domain.CategoryLanche, product.Category)
	assert.Equal(t, created, product.CreatedAt)
	assert.Equal(t, created, product.UpdatedAt)
}

func TestDocToProduct_SkipsDocumentsWithoutValidID(t *testing.T) {
	// Escritas parciais não derrubam a listagem: são puladas.
	invalid := []bson.M{
		{"name": "sem id"},
		{"product_id": nil, "name": "id nulo"},
		{"product_id": "3", "name": "id como string"},
		{"product_id": int32(0), "name": "id zero"},
		{"product_id": -1, "name": "id negativo"},
		{"product_id": 3.5, "name": "id fracionário"},
	}

	for _, doc := range invalid {
		_, ok := docToProduct(doc)
		assert.False(t, ok, "documento deveria ser pulado: %v", doc)
	}
}

func TestCoerceID_NumericRepresentations(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want int
		ok   bool
	}{
		{"int", 5, 5, true},
		{"int32", int32(5), 5, true},
		{"int64", int64(5), 5, true},
		{"double integral", float64(5), 5, true},
		{"double fracionário", 5.5, 0, false},
		{"string", "5", 0, false},
		{"nil", nil, 0, false},
		{"zero", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerceID(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocToProduct_ToleratesMissingOptionalFields(t *testing.T) {
	product, ok := docToProduct(bson.M{"product_id": int64(2)})

	assert.True(t, ok)
	assert.Equal(t, 2, product.ID)
	assert.Empty(t, product.Name)
	assert.Zero(t, product.Price)
	assert.True(t, product.CreatedAt.IsZero())
}

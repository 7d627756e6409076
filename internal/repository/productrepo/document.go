package productrepo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"techproducts/internal/domain"
)

// docToProduct mapeia um documento bruto da coleção para a entidade Product.
// Documentos sem um campo product_id inteiro válido são considerados escritas
// parciais/corrompidas e retornam ok=false para serem pulados nas listagens.
func docToProduct(doc bson.M) (domain.Product, bool) {
	id, ok := coerceID(doc["product_id"])
	if !ok {
		return domain.Product{}, false
	}

	product := domain.Product{ID: id}

	if name, ok := doc["name"].(string); ok {
		product.Name = name
	}
	if category, ok := doc["category"].(string); ok {
		product.Category = category
	}
	product.Price = coerceFloat(doc["price"])
	product.CreatedAt = coerceTime(doc["created_at"])
	product.UpdatedAt = coerceTime(doc["updated_at"])

	return product, true
}

// coerceID aceita as representações numéricas que o driver BSON pode entregar
// para o identificador. Valores ausentes, nulos ou não inteiros são inválidos.
func coerceID(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case int32:
		if v > 0 {
			return int(v), true
		}
	case int64:
		if v > 0 {
			return int(v), true
		}
	case float64:
		// Documentos gravados por clientes que usam double: aceita apenas
		// valores integrais.
		if v > 0 && v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func coerceFloat(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

func coerceTime(raw interface{}) time.Time {
	switch v := raw.(type) {
	case primitive.DateTime:
		return v.Time().UTC()
	case time.Time:
		return v.UTC()
	}
	return time.Time{}
}

package domain

import (
	"context"
	"time"
)

// Product representa o item principal do catálogo (a Entidade).
// O ID é um inteiro sequencial gerenciado pela aplicação, e não o
// identificador nativo do MongoDB, porque o serviço de Orders referencia
// produtos por esse inteiro. ID igual a zero significa "ainda não atribuído".
type Product struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductInput é o payload esperado nas requisições de criação e atualização.
type ProductInput struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Categorias válidas do catálogo.
const (
	CategoryLanche         = "Lanche"
	CategoryAcompanhamento = "Acompanhamento"
	CategoryBebida         = "Bebida"
	CategorySobremesa      = "Sobremesa"
)

// ValidCategories lista as categorias aceitas pelo catálogo.
var ValidCategories = []string{
	CategoryLanche,
	CategoryAcompanhamento,
	CategoryBebida,
	CategorySobremesa,
}

// IsValidCategory verifica se a categoria pertence ao conjunto fixo do catálogo.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// --- Interfaces de Contrato ---

// ProductService é a interface que a camada de Serviço (Business Logic) DEVE implementar.
// Ela define o que o Handler (Camada API) pode pedir para a camada de Serviço fazer.
type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id int, input ProductInput) (Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListAllProducts(ctx context.Context) ([]Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error)
}

// ProductRepository é a interface que a camada de Repositório (Data Access) DEVE implementar.
// Ela define o que a camada de Serviço pode pedir para a camada de Persistência fazer.
type ProductRepository interface {
	Add(ctx context.Context, product Product) (Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	GetByName(ctx context.Context, name string) (Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id int) (bool, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
}

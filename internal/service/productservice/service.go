package productservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"techproducts/internal/domain"
	apperror "techproducts/internal/errors"
	"techproducts/internal/pkg/logger"
)

// Service é a estrutura que implementa a interface domain.ProductService.
// Cada método corresponde a um caso de uso do catálogo e concentra os
// invariantes de negócio acima do Repositório.
type Service struct {
	repo   domain.ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo domain.ProductRepository, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// validateInput aplica as regras de formato do payload: nome obrigatório,
// preço não negativo e categoria do conjunto fixo do catálogo.
func validateInput(input domain.ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperror.NewValidationError("Product name must not be empty")
	}
	if input.Price < 0 {
		return apperror.NewValidationError("Product price must not be negative")
	}
	if !domain.IsValidCategory(input.Category) {
		return apperror.NewValidationError(fmt.Sprintf("Invalid category '%s'. Valid categories: %s",
			input.Category, strings.Join(domain.ValidCategories, ", ")))
	}
	return nil
}

// CreateProduct cria um novo produto.
// A unicidade do nome é checada aqui, não no banco: um produto com o mesmo
// nome já cadastrado rejeita a criação.
func (s *Service) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	if err := validateInput(input); err != nil {
		return domain.Product{}, err
	}

	if _, err := s.repo.GetByName(ctx, input.Name); err == nil {
		return domain.Product{}, apperror.NewConflictError("Product already exists")
	} else if !isNotFound(err) {
		return domain.Product{}, err
	}

	product := domain.Product{
		Name:     input.Name,
		Price:    input.Price,
		Category: input.Category,
	}

	created, err := s.repo.Add(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado.", map[string]interface{}{"product_id": created.ID, "name": created.Name})
	return created, nil
}

// UpdateProduct atualiza um produto existente.
// A existência do alvo é checada antes da unicidade de nome; renomear para o
// próprio nome atual é permitido, renomear para o nome de outro ID não.
func (s *Service) UpdateProduct(ctx context.Context, id int, input domain.ProductInput) (domain.Product, error) {
	if err := validateInput(input); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product with ID %d not found", id))
	}

	if existing.Name != input.Name {
		owner, err := s.repo.GetByName(ctx, input.Name)
		if err == nil && owner.ID != existing.ID {
			return domain.Product{}, apperror.NewConflictError(fmt.Sprintf("Product with name '%s' already exists", input.Name))
		}
		if err != nil && !isNotFound(err) {
			return domain.Product{}, err
		}
	}

	// created_at é preservado; updated_at é renovado pelo repositório.
	updated := domain.Product{
		ID:        existing.ID,
		Name:      input.Name,
		Price:     input.Price,
		Category:  input.Category,
		CreatedAt: existing.CreatedAt,
	}

	result, err := s.repo.Update(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Produto atualizado.", map[string]interface{}{"product_id": result.ID})
	return result, nil
}

// DeleteProduct remove um produto pelo ID (hard delete).
// Uma remoção que o repositório reporta como falha gera um erro distinto do
// not-found, ainda que ambos virem 404 na borda HTTP.
func (s *Service) DeleteProduct(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return apperror.NewNotFoundError(fmt.Sprintf("Product with ID %d not found", id))
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NewConflictError(fmt.Sprintf("Failed to delete product with ID %d", id))
	}

	s.logger.Info("Produto removido.", map[string]interface{}{"product_id": id})
	return nil
}

// ListAllProducts repassa a listagem completa do repositório.
// Lista vazia não é erro aqui: a decisão de responder 404 é do Controller.
func (s *Service) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListAll(ctx)
}

// ListProductsByCategory repassa a listagem filtrada por categoria.
func (s *Service) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

// GetProductsByIDs repassa a busca em lote usada pelo serviço de Orders.
func (s *Service) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func isNotFound(err error) bool {
	var notFound *apperror.NotFoundError
	return errors.As(err, &notFound)
}

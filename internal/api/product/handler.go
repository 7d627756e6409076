package product

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"techproducts/internal/domain"
	apperror "techproducts/internal/errors"
	"techproducts/internal/pkg/logger"
	"techproducts/internal/pkg/middleware"
)

// Handler agrupa todos os métodos de Handler do produto.
// Faz o papel de Controller: traduz os resultados dos casos de uso para as
// formas de resposta e códigos HTTP do contrato público.
type Handler struct {
	Service domain.ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc domain.ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ProductSummary é a forma de apresentação sem timestamps, usada na
// integração com o serviço de Orders.
type ProductSummary struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

func presentProductList(products []domain.Product) []ProductSummary {
	out := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		out = append(out, ProductSummary{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
		})
	}
	return out
}

// --- Funções Auxiliares ---

// writeJSON envia uma resposta de sucesso padronizada.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	h.Logger.Info("Requisição concluída com sucesso.", map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.Logger.Error("Falha ao codificar JSON de resposta.", err)
		}
	}
}

// writeError envia uma resposta de erro no formato {code, category, message}.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, category, message string) {
	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de servidor (%s): %s", category, message), nil)
	} else {
		h.Logger.Debug("Requisição rejeitada.", map[string]interface{}{
			"path":     r.URL.Path,
			"status":   status,
			"category": category,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// pathParam extrai o segmento de rota após /products/.
func pathParam(r *http.Request) string {
	path := strings.Trim(r.URL.Path, "/")
	segments := strings.Split(path, "/")
	if len(segments) != 2 {
		return ""
	}
	return segments[1]
}

// logPrincipal registra a identidade autenticada nas rotas de mutação.
func (h *Handler) logPrincipal(r *http.Request, action string) {
	if principal, ok := middleware.GetPrincipalFromContext(r.Context()); ok {
		h.Logger.Info(action, map[string]interface{}{
			"username": principal.Username,
			"is_admin": principal.IsAdmin,
		})
	}
}

// --- Handlers de Produto ---

// ListAllProductsHandler lida com GET /products.
// @Summary Lista todos os produtos
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /products [get]
func (h *Handler) ListAllProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListAllProducts(r.Context())
	if err != nil {
		status, category, message := apperror.MapToHTTPStatus(err)
		h.writeError(w, r, status, category, message)
		return
	}

	// Catálogo vazio é decisão de Controller: responde 404.
	if len(products) == 0 {
		h.writeError(w, r, http.StatusNotFound, "NOT_FOUND", "No products found")
		return
	}

	h.writeJSON(w, r, http.StatusOK, products)
}

// ListProductsByCategoryHandler lida com GET /products/{category}.
// @Summary Lista produtos por categoria
// @Tags products
// @Produce json
// @Param category path string true "Categoria do produto"
// @Success 200 {array} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /products/{category} [get]
func (h *Handler) ListProductsByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category := pathParam(r)

	products, err := h.Service.ListProductsByCategory(r.Context(), category)
	if err != nil {
		status, cat, message := apperror.MapToHTTPStatus(err)
		h.writeError(w, r, status, cat, message)
		return
	}

	if len(products) == 0 {
		h.writeError(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No products found in category: %s", category))
		return
	}

	h.writeJSON(w, r, http.StatusOK, products)
}

// CreateProductHandler lida com POST /products (somente admin).
// @Summary Cria um novo produto
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.ProductInput true "Dados do produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	h.logPrincipal(r, "Criação de produto solicitada.")

	var input domain.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	created, err := h.Service.CreateProduct(r.Context(), input)
	if err != nil {
		status, category, message := apperror.MapToHTTPStatus(err)
		// Nome duplicado responde 400 na criação.
		if status == http.StatusConflict {
			status = http.StatusBadRequest
		}
		h.writeError(w, r, status, category, message)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, created)
}

// UpdateProductHandler lida com PUT /products/{product_id} (somente admin).
// @Summary Atualiza um produto
// @Tags products
// @Accept json
// @Produce json
// @Param product_id path int true "ID do produto"
// @Param product body domain.ProductInput true "Dados do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{product_id} [put]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	h.logPrincipal(r, "Atualização de produto solicitada.")

	rawID := pathParam(r)
	id, err := strconv.Atoi(rawID)
	if err != nil {
		// ID não numérico se comporta como produto inexistente.
		h.writeError(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Product with ID %s not found", rawID))
		return
	}

	var input domain.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	updated, err := h.Service.UpdateProduct(r.Context(), id, input)
	if err != nil {
		status, category, message := apperror.MapToHTTPStatus(err)
		// Na atualização, conflito de nome também responde 404.
		if status == http.StatusConflict {
			status = http.StatusNotFound
		}
		h.writeError(w, r, status, category, message)
		return
	}

	h.writeJSON(w, r, http.StatusOK, updated)
}

// DeleteProductHandler lida com DELETE /products/{product_id} (somente admin).
// @Summary Remove um produto
// @Tags products
// @Produce json
// @Param product_id path int true "ID do produto"
// @Success 200 {object} domain.MessageResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /products/{product_id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	h.logPrincipal(r, "Remoção de produto solicitada.")

	rawID := pathParam(r)
	id, err := strconv.Atoi(rawID)
	if err != nil {
		h.writeError(w, r, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("Product with ID %s not found", rawID))
		return
	}

	if err := h.Service.DeleteProduct(r.Context(), id); err != nil {
		status, category, message := apperror.MapToHTTPStatus(err)
		// Falha de remoção e not-found são indistinguíveis na borda HTTP.
		if status == http.StatusConflict {
			status = http.StatusNotFound
		}
		h.writeError(w, r, status, category, message)
		return
	}

	h.writeJSON(w, r, http.StatusOK, domain.MessageResponse{
		Message: fmt.Sprintf("Product %d deleted successfully", id),
	})
}

// BatchProductsHandler lida com GET /products/batch?ids=1,2,3.
// Endpoint de integração consumido pelo serviço de Orders; responde na forma
// de apresentação sem timestamps.
// @Summary Busca produtos em lote por IDs
// @Tags products
// @Produce json
// @Param ids query string true "IDs separados por vírgula"
// @Success 200 {array} product.ProductSummary
// @Router /products/batch [get]
func (h *Handler) BatchProductsHandler(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if raw := r.URL.Query().Get("ids"); raw != "" {
		ids = strings.Split(raw, ",")
	}

	products, err := h.Service.GetProductsByIDs(r.Context(), ids)
	if err != nil {
		status, category, message := apperror.MapToHTTPStatus(err)
		h.writeError(w, r, status, category, message)
		return
	}

	h.writeJSON(w, r, http.StatusOK, presentProductList(products))
}

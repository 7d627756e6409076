package router

import (
	"encoding/json"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"techproducts/internal/api/product"
	"techproducts/internal/domain"
	"techproducts/internal/pkg/cache"
	"techproducts/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências; o gate de
// autorização de admin é aplicado apenas às rotas de mutação.
func NewRouter(productHandler *product.Handler, verifier domain.TokenVerifier, cacheClient cache.Client, rateLimit int, ratePeriod time.Duration) http.Handler {
	mux := http.NewServeMux()

	adminRequired := middleware.AdminRequired(verifier)

	// --- Rotas do catálogo ---

	// /products: GET lista tudo; POST cria (admin).
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			productHandler.ListAllProductsHandler(w, r)
		case http.MethodPost:
			adminRequired(productHandler.CreateProductHandler)(w, r)
		default:
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		}
	})

	// /products/{segment}: GET lista por categoria (ou lote em /products/batch);
	// PUT atualiza e DELETE remove por ID (admin).
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path == "/products/batch" {
				productHandler.BatchProductsHandler(w, r)
				return
			}
			// Barra final sem categoria equivale à listagem completa.
			if r.URL.Path == "/products/" {
				productHandler.ListAllProductsHandler(w, r)
				return
			}
			productHandler.ListProductsByCategoryHandler(w, r)
		case http.MethodPut:
			adminRequired(productHandler.UpdateProductHandler)(w, r)
		case http.MethodDelete:
			adminRequired(productHandler.DeleteProductHandler)(w, r)
		default:
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		}
	})

	// --- Rotas utilitárias ---

	// Health check desacoplado do banco: usado pelos probes do Kubernetes e
	// não deve falhar por indisponibilidade do MongoDB.
	mux.HandleFunc("/health", HealthHandler)

	mux.HandleFunc("/", RootHandler)

	// Documentação da API.
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// --- Middlewares globais ---
	var handler http.Handler = mux
	handler = middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)(handler)
	handler = middleware.RequestID(handler)

	return handler
}

// HealthHandler responde sempre saudável, sem checar dependências.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// RootHandler responde a mensagem de identificação do serviço.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(domain.MessageResponse{Message: "Products Microservice"})
}

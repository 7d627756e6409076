package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"techproducts/config"
	_ "techproducts/docs"
	"techproducts/internal/pkg/cache"
	"techproducts/internal/pkg/database"
	"techproducts/internal/pkg/identity"
	"techproducts/internal/pkg/logger"

	"techproducts/internal/api/product"
	"techproducts/internal/api/router"
	"techproducts/internal/repository/productrepo"
	"techproducts/internal/service/authservice"
	"techproducts/internal/service/productservice"
)

func main() {
	// 0. Carregar variáveis de ambiente (.env). Se o arquivo não existir,
	// seguimos em frente: as variáveis essenciais podem estar no ambiente
	// do sistema (e.g., Kubernetes).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 1. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (MongoDB)
	mongoClient, db, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("Falha ao conectar ao MongoDB.", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error("Falha ao encerrar a conexão com o MongoDB.", err)
		}
	}()
	log.Info("Conexão MongoDB estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Provedor de Identidade (Cognito)
	cognitoGateway, err := identity.NewCognitoGateway(context.Background(), cfg.AWSRegion, cfg.CognitoUserPoolID, cfg.AdminGroup, log)
	if err != nil {
		log.Fatal("Falha ao inicializar o gateway do Cognito.", err)
	}
	log.Debug("Gateway do Cognito inicializado.", nil)

	// 2. Injeção de Dependências (Repository -> Service -> Handler)

	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	log.Debug("Repositório de Produto inicializado.", nil)

	productSvc := productservice.NewService(productRepo, log)
	log.Debug("Serviço de Produto inicializado.", nil)

	productHandler := product.NewHandler(productSvc, log)
	log.Debug("Handler de Produto inicializado.", nil)

	verifyTokenSvc := authservice.NewService(cognitoGateway, log)
	log.Debug("Serviço de Verificação de Token inicializado.", nil)

	// 3. Roteador e Servidor HTTP

	r := router.NewRouter(productHandler, verifyTokenSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor de produtos ouvindo.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"techproducts/config"
	apperror "techproducts/internal/errors"
	"techproducts/internal/pkg/cache"
	"techproducts/internal/pkg/database"
	"techproducts/internal/pkg/logger"
	"techproducts/internal/repository/productrepo"

	"techproducts/internal/domain"
)

// Carga inicial do catálogo. Os IDs são explícitos para que reexecuções do
// seed sejam idempotentes: o repositório rejeita IDs já existentes.
var baseline = []domain.Product{
	{ID: 1, Name: "Burger", Price: 10.5, Category: domain.CategoryLanche},
	{ID: 2, Name: "Batata Frita", Price: 6.0, Category: domain.CategoryAcompanhamento},
	{ID: 3, Name: "Refrigerante", Price: 5.0, Category: domain.CategoryBebida},
	{ID: 4, Name: "Pudim", Price: 7.5, Category: domain.CategorySobremesa},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: arquivo .env não encontrado: %v", err)
	}

	var timeoutSec int
	flag.IntVar(&timeoutSec, "timeout", 30, "timeout total do seed, em segundos")
	flag.Parse()

	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)

	mongoClient, db, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		appLog.Fatal("seed: falha ao conectar ao MongoDB.", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	repo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	inserted := 0
	for _, p := range baseline {
		if _, err := repo.Add(ctx, p); err != nil {
			var conflict *apperror.ConflictError
			if errors.As(err, &conflict) {
				appLog.Debug("seed: produto já existe, pulando.", map[string]interface{}{"product_id": p.ID})
				continue
			}
			appLog.Fatal("seed: falha ao inserir produto.", err)
		}
		inserted++
	}

	appLog.Info("seed: carga concluída.", map[string]interface{}{"inserted": inserted, "total": len(baseline)})
}

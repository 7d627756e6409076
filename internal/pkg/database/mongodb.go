package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDB inicializa o cliente do MongoDB e valida a conexão com um ping.
// Retorna o handle do banco pronto para uso; o cliente é fechado via Disconnect
// no shutdown do processo (nunca estado global de módulo).
func NewMongoDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMaxConnIdleTime(2 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("falha ao abrir a conexão com o MongoDB: %w", err)
	}

	// Testar a conexão imediatamente: garante que a URI e o servidor estão corretos.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("falha ao realizar o ping inicial no MongoDB: %w", err)
	}

	return client, client.Database(dbName), nil
}

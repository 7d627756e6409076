package productrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techproducts/internal/domain"
	apperror "techproducts/internal/errors"
	"techproducts/internal/pkg/cache"
	"techproducts/internal/pkg/logger"
)

const collectionName = "products"

// Chave de cache para produtos individuais.
const productCacheKey = "product:%d"

// ProductRepository implementa a interface domain.ProductRepository sobre uma
// coleção do MongoDB.
//
// Os documentos carregam um campo product_id inteiro gerenciado pela
// aplicação; o _id nativo do MongoDB nunca é exposto, porque o serviço de
// Orders referencia produtos pelo inteiro.
type ProductRepository struct {
	collection *mongo.Collection
	cache      cache.Client
	dbTimeout  time.Duration
	cacheTTL   time.Duration
	logger     logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos as dependências de Infraestrutura (banco e cache).
func NewProductRepository(db *mongo.Database, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(collectionName),
		cache:      cacheClient,
		dbTimeout:  dbTimeout,
		cacheTTL:   cacheTTL,
		logger:     log,
	}
}

// nextID deriva o próximo identificador inteiro inspecionando o máximo atual.
// Padrão read-then-write sem unicidade no nível do banco: criações
// concorrentes podem colidir. Limitação aceita do design original.
func (r *ProductRepository) nextID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "product_id", Value: -1}})

	var doc bson.M
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	max, ok := coerceID(doc["product_id"])
	if !ok {
		// Nenhum documento com identificador válido: começa do 1.
		return 1, nil
	}
	return max + 1, nil
}

// Add persiste um novo Produto na coleção.
// Se o produto já vier com ID (e.g., carga de seed), a existência é checada
// antes; caso contrário o alocador atribui max+1.
func (r *ProductRepository) Add(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	if product.ID != 0 {
		if _, err := r.GetByID(ctxTimeout, product.ID); err == nil {
			return domain.Product{}, apperror.NewConflictError(fmt.Sprintf("Product with ID %d already exists", product.ID))
		}
	}

	id := product.ID
	if id == 0 {
		var err error
		id, err = r.nextID(ctxTimeout)
		if err != nil {
			return domain.Product{}, apperror.NewDBError("falha ao alocar o próximo product_id", err)
		}
	}

	now := time.Now().UTC()
	doc := bson.M{
		"product_id": id,
		"name":       product.Name,
		"price":      product.Price,
		"category":   product.Category,
		"created_at": now,
		"updated_at": now,
	}

	if _, err := r.collection.InsertOne(ctxTimeout, doc); err != nil {
		return domain.Product{}, apperror.NewDBError("falha ao inserir produto", err)
	}

	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

// GetByID busca um produto pelo identificador inteiro, com Cache-Aside.
//
// Falhas de consulta ao banco são registradas e convertidas em not-found em
// vez de propagadas, preservando o contrato que os clientes existentes
// esperam (ver DESIGN.md).
func (r *ProductRepository) GetByID(ctx context.Context, id int) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	// Tentar obter do cache primeiro.
	if cached, err := r.cache.Get(ctxTimeout, key); err == nil {
		if json.Unmarshal([]byte(cached), &product) == nil {
			return product, nil
		}
	}

	var doc bson.M
	err := r.collection.FindOne(ctxTimeout, bson.M{"product_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product with ID %d not found", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto por ID no MongoDB.", err)
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product with ID %d not found", id))
	}

	product, ok := docToProduct(doc)
	if !ok {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product with ID %d not found", id))
	}

	// Popular o cache para as próximas leituras.
	if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
		_ = r.cache.Set(ctxTimeout, key, productJSON, r.cacheTTL)
	}

	return product, nil
}

// GetByName busca um produto pelo nome exato. Usado pela checagem de
// unicidade de nome na camada de serviço.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	var doc bson.M
	err := r.collection.FindOne(ctxTimeout, bson.M{"name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product with name '%s' not found", name))
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("falha ao buscar produto por nome", err)
	}

	product, ok := docToProduct(doc)
	if !ok {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Product with name '%s' not found", name))
	}
	return product, nil
}

// ListAll retorna todos os produtos armazenados. Documentos sem um
// product_id inteiro válido são pulados silenciosamente.
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, bson.M{})
}

// ListByCategory retorna os produtos da categoria, com a mesma política de
// pular documentos inválidos do ListAll.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.list(ctx, bson.M{"category": category})
}

func (r *ProductRepository) list(ctx context.Context, filter bson.M) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctxTimeout, filter)
	if err != nil {
		return nil, apperror.NewDBError("falha ao listar produtos", err)
	}
	defer cursor.Close(ctxTimeout)

	products := []domain.Product{}
	for cursor.Next(ctxTimeout) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Documento de produto indecodificável ignorado.", map[string]interface{}{"error": err.Error()})
			continue
		}
		if product, ok := docToProduct(doc); ok {
			products = append(products, product)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, apperror.NewDBError("falha ao percorrer o cursor de produtos", err)
	}

	return products, nil
}

// Update sobrescreve nome/preço/categoria e renova o updated_at, relendo o
// documento após a escrita para devolver o estado autoritativo do banco.
//
// Em falha de persistência, devolve a entidade de entrada (não persistida)
// em vez de falhar. Trade-off herdado do serviço original (ver DESIGN.md).
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":       product.Name,
		"price":      product.Price,
		"category":   product.Category,
		"updated_at": time.Now().UTC(),
	}}

	key := fmt.Sprintf(productCacheKey, product.ID)

	if _, err := r.collection.UpdateOne(ctxTimeout, bson.M{"product_id": product.ID}, update); err != nil {
		r.logger.Error("Falha ao atualizar produto no MongoDB.", err)
		_ = r.cache.Delete(ctxTimeout, key)
		return product, nil
	}

	// Invalida a entrada de cache antes de reler o documento.
	_ = r.cache.Delete(ctxTimeout, key)

	var doc bson.M
	if err := r.collection.FindOne(ctxTimeout, bson.M{"product_id": product.ID}).Decode(&doc); err != nil {
		r.logger.Error("Falha ao reler produto atualizado no MongoDB.", err)
		return product, nil
	}

	updated, ok := docToProduct(doc)
	if !ok {
		return product, nil
	}
	return updated, nil
}

// Delete remove o documento do produto. Retorna true apenas quando um
// documento foi de fato removido; falhas de persistência viram false.
func (r *ProductRepository) Delete(ctx context.Context, id int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.dbTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctxTimeout, bson.M{"product_id": id})
	if err != nil {
		r.logger.Error("Falha ao excluir produto no MongoDB.", err)
		return false, nil
	}

	_ = r.cache.Delete(ctxTimeout, fmt.Sprintf(productCacheKey, id))
	return result.DeletedCount > 0, nil
}

// GetByIDs busca múltiplos produtos pelos identificadores. Entradas não
// coercíveis para inteiro são descartadas sem invalidar a chamada inteira;
// um conjunto válido vazio retorna lista vazia sem consultar o banco.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	intIDs := make([]int, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.Atoi(raw)
		if err != nil {
			r.logger.Warn("ID inválido ignorado na busca em lote.", map[string]interface{}{"id": raw})
			continue
		}
		intIDs = append(intIDs, id)
	}

	if len(intIDs) == 0 {
		return []domain.Product{}, nil
	}

	return r.list(ctx, bson.M{"product_id": bson.M{"$in": intIDs}})
}

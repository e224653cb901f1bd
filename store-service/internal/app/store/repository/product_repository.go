package repository

import (
	"context"
	"errors"
	"fmt"

	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{
		collection: db.Collection(productsCollection, collectionOptions()),
	}
}

// List возвращает не больше limit товаров; limit <= 0 - без ограничения
func (r *productRepository) List(ctx context.Context, limit int64) ([]entity.Product, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, productsCollection)
	defer timer.ObserveDuration()

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	products, err := findDocuments(ctx, r.collection, bson.M{}, opts)
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to find products: %w", err))
	}

	return products, nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (entity.Product, error) {
	objectID, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFindOne, productsCollection)
	defer timer.ObserveDuration()

	product, err := findOne(ctx, r.collection, bson.M{entity.FieldID: objectID})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, timer.Fail(fmt.Errorf("failed to get product: %w", err))
	}

	return product, nil
}

func (r *productRepository) Create(ctx context.Context, product entity.Product) (*entity.InsertResult, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, productsCollection)
	defer timer.ObserveDuration()

	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to create product: %w", err))
	}

	return insertResult(res), nil
}

func (r *productRepository) Delete(ctx context.Context, id string) (*entity.DeleteResult, error) {
	objectID, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, productsCollection)
	defer timer.ObserveDuration()

	res, err := r.collection.DeleteOne(ctx, bson.M{entity.FieldID: objectID})
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to delete product: %w", err))
	}

	return deleteResult(res), nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timezone/pkg/logger"
	"timezone/store-service/internal/app/store/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "store-service"

const (
	productsCollection = "products"
	ordersCollection   = "orders"
	reviewsCollection  = "reviews"
	usersCollection    = "users"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid identifier")
)

// ProductRepository - коллекция products
type ProductRepository interface {
	List(ctx context.Context, limit int64) ([]entity.Product, error)
	GetByID(ctx context.Context, id string) (entity.Product, error)
	Create(ctx context.Context, product entity.Product) (*entity.InsertResult, error)
	Delete(ctx context.Context, id string) (*entity.DeleteResult, error)
}

// OrderRepository - коллекция orders
type OrderRepository interface {
	ListByUserEmail(ctx context.Context, email string) ([]entity.Order, error)
	ListAll(ctx context.Context) ([]entity.Order, error)
	Create(ctx context.Context, order entity.Order) (*entity.InsertResult, error)
	UpdateStatus(ctx context.Context, id string, status interface{}) (*entity.UpdateResult, error)
	Delete(ctx context.Context, id string) (*entity.DeleteResult, error)
	CountByStatus(ctx context.Context) ([]entity.OrderStatusCount, error)
}

// ReviewRepository - коллекция reviews, ключ отзыва - email автора
type ReviewRepository interface {
	List(ctx context.Context) ([]entity.Review, error)
	UpsertByEmail(ctx context.Context, review entity.Review) (*entity.UpdateResult, error)
}

// UserRepository - коллекция users, логический ключ - email
type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	Create(ctx context.Context, user entity.User) (*entity.InsertResult, error)
	UpsertByEmail(ctx context.Context, user entity.User) (*entity.UpdateResult, error)
	SetRole(ctx context.Context, email string, role string) (*entity.UpdateResult, error)
}

// collectionOptions: вложенные документы декодируются в bson.M, а не в bson.D,
// иначе в JSON-ответе они превращаются в массивы пар Key/Value
func collectionOptions() *options.CollectionOptions {
	return options.Collection().SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
}

func objectIDFromHex(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	return objectID, nil
}

// findDocuments вычитывает курсор целиком; пустая выборка - пустой срез, не nil
func findDocuments(ctx context.Context, collection *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]bson.M, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]bson.M, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = make([]bson.M, 0)
	}

	return docs, nil
}

func findOne(ctx context.Context, collection *mongo.Collection, filter interface{}) (bson.M, error) {
	var doc bson.M
	if err := collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// withoutID копирует документ без _id: идентификатор неизменяем и не попадает в $set
func withoutID(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for key, value := range doc {
		if key == entity.FieldID {
			continue
		}
		out[key] = value
	}
	return out
}

func insertResult(res *mongo.InsertOneResult) *entity.InsertResult {
	return &entity.InsertResult{
		Acknowledged: true,
		InsertedID:   res.InsertedID,
	}
}

func updateResult(res *mongo.UpdateResult) *entity.UpdateResult {
	return &entity.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}

func deleteResult(res *mongo.DeleteResult) *entity.DeleteResult {
	return &entity.DeleteResult{
		Acknowledged: true,
		DeletedCount: res.DeletedCount,
	}
}

// ensureIndex создает неуникальный индекс по одному полю.
// Ошибка только логируется - индекс может уже существовать
func ensureIndex(collection *mongo.Collection, field, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetName(name),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Warn().
			Err(err).
			Str("collection", collection.Name()).
			Str("index", name).
			Msg("Failed to create index")
	}
}

package repository

import (
	"context"
	"fmt"

	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type orderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository создает репозиторий заказов и индекс по userEmail
// для выборки заказов пользователя
func NewOrderRepository(db *mongo.Database) OrderRepository {
	collection := db.Collection(ordersCollection, collectionOptions())
	ensureIndex(collection, entity.FieldUserEmail, "user_email_idx")

	return &orderRepository{
		collection: collection,
	}
}

func (r *orderRepository) ListByUserEmail(ctx context.Context, email string) ([]entity.Order, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, ordersCollection)
	defer timer.ObserveDuration()

	orders, err := findDocuments(ctx, r.collection, bson.M{entity.FieldUserEmail: email})
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to find user orders: %w", err))
	}

	return orders, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, ordersCollection)
	defer timer.ObserveDuration()

	orders, err := findDocuments(ctx, r.collection, bson.M{})
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to find orders: %w", err))
	}

	return orders, nil
}

func (r *orderRepository) Create(ctx context.Context, order entity.Order) (*entity.InsertResult, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, ordersCollection)
	defer timer.ObserveDuration()

	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to create order: %w", err))
	}

	return insertResult(res), nil
}

// UpdateStatus меняет только поле status
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status interface{}) (*entity.UpdateResult, error) {
	objectID, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, ordersCollection)
	defer timer.ObserveDuration()

	filter := bson.M{entity.FieldID: objectID}
	update := bson.M{"$set": bson.M{entity.FieldStatus: status}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to update order status: %w", err))
	}

	return updateResult(res), nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) (*entity.DeleteResult, error) {
	objectID, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, ordersCollection)
	defer timer.ObserveDuration()

	res, err := r.collection.DeleteOne(ctx, bson.M{entity.FieldID: objectID})
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to delete order: %w", err))
	}

	return deleteResult(res), nil
}

// CountByStatus группирует заказы по значению status
func (r *orderRepository) CountByStatus(ctx context.Context) ([]entity.OrderStatusCount, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpAggregate, ordersCollection)
	defer timer.ObserveDuration()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + entity.FieldStatus},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to aggregate orders: %w", err))
	}
	defer cursor.Close(ctx)

	var counts []entity.OrderStatusCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to decode order counts: %w", err))
	}

	return counts, nil
}

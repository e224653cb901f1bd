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

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	collection := db.Collection(usersCollection, collectionOptions())
	ensureIndex(collection, entity.FieldEmail, "email_idx")

	return &userRepository{
		collection: collection,
	}
}

func (r *userRepository) List(ctx context.Context) ([]entity.User, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, usersCollection)
	defer timer.ObserveDuration()

	users, err := findDocuments(ctx, r.collection, bson.M{})
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to find users: %w", err))
	}

	return users, nil
}

// GetByEmail возвращает ErrNotFound, если пользователя нет
func (r *userRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFindOne, usersCollection)
	defer timer.ObserveDuration()

	user, err := findOne(ctx, r.collection, bson.M{entity.FieldEmail: email})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, timer.Fail(fmt.Errorf("failed to get user: %w", err))
	}

	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user entity.User) (*entity.InsertResult, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, usersCollection)
	defer timer.ObserveDuration()

	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to create user: %w", err))
	}

	return insertResult(res), nil
}

func (r *userRepository) UpsertByEmail(ctx context.Context, user entity.User) (*entity.UpdateResult, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, usersCollection)
	defer timer.ObserveDuration()

	filter := bson.M{entity.FieldEmail: user[entity.FieldEmail]}
	update := bson.M{"$set": withoutID(user)}

	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to upsert user: %w", err))
	}

	return updateResult(res), nil
}

// SetRole меняет роль существующего пользователя, новых документов не создает
func (r *userRepository) SetRole(ctx context.Context, email string, role string) (*entity.UpdateResult, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, usersCollection)
	defer timer.ObserveDuration()

	filter := bson.M{entity.FieldEmail: email}
	update := bson.M{"$set": bson.M{entity.FieldRole: role}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to set user role: %w", err))
	}

	return updateResult(res), nil
}

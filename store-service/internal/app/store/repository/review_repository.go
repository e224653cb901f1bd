package repository

import (
	"context"
	"fmt"

	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает репозиторий отзывов.
// Индекс по email ускоряет upsert, уникальность не навязывается
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection(reviewsCollection, collectionOptions())
	ensureIndex(collection, entity.FieldEmail, "email_idx")

	return &reviewRepository{
		collection: collection,
	}
}

func (r *reviewRepository) List(ctx context.Context) ([]entity.Review, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpFind, reviewsCollection)
	defer timer.ObserveDuration()

	reviews, err := findDocuments(ctx, r.collection, bson.M{})
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to find reviews: %w", err))
	}

	return reviews, nil
}

// UpsertByEmail перезаписывает поля отзыва с тем же email или создает новый
func (r *reviewRepository) UpsertByEmail(ctx context.Context, review entity.Review) (*entity.UpdateResult, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, reviewsCollection)
	defer timer.ObserveDuration()

	filter := bson.M{entity.FieldEmail: review[entity.FieldEmail]}
	update := bson.M{"$set": withoutID(review)}

	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, timer.Fail(fmt.Errorf("failed to upsert review: %w", err))
	}

	return updateResult(res), nil
}

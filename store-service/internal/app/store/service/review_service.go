package service

import (
	"context"
	"fmt"

	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/infrastructure"
	"timezone/store-service/internal/app/store/repository"
)

// ReviewService - один отзыв на email, повторная отправка перезаписывает его
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	events     eventPublisher
}

func NewReviewService(reviewRepo repository.ReviewRepository, publisher infrastructure.MessagePublisher) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		events:     eventPublisher{publisher: publisher},
	}
}

func (s *ReviewService) ListReviews(ctx context.Context) (*entity.ReviewListResponse, error) {
	reviews, err := s.reviewRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return &entity.ReviewListResponse{
		Count:   len(reviews),
		Reviews: reviews,
	}, nil
}

func (s *ReviewService) PlaceReview(ctx context.Context, review entity.Review) (*entity.UpdateResult, error) {
	email := entity.StringField(review, entity.FieldEmail)
	if email == "" {
		return nil, ErrEmailRequired
	}

	result, err := s.reviewRepo.UpsertByEmail(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("failed to place review: %w", err)
	}

	metrics.ReviewsPlaced.Inc()
	s.events.publish(ctx, entity.StoreEvent{
		EventType: entity.EventReviewPlaced,
		EntityID:  idString(result.UpsertedID),
		Email:     email,
	})

	return result, nil
}

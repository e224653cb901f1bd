package service

import (
	"context"
	"errors"
	"testing"

	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/infrastructure/messaging"
	"timezone/store-service/internal/app/store/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewService_ListReviews(t *testing.T) {
	// Arrange
	ctx := context.Background()
	reviewRepo := new(mocks.MockReviewRepository)

	reviews := []entity.Review{
		{"email": "ann@example.com", "rating": 5},
		{"email": "bob@example.com", "rating": 4},
	}
	reviewRepo.On("List", ctx).Return(reviews, nil)

	service := NewReviewService(reviewRepo, messaging.NopPublisher{})

	// Act
	result, err := service.ListReviews(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Len(t, result.Reviews, 2)
}

func TestReviewService_ListReviews_Empty(t *testing.T) {
	// Arrange
	ctx := context.Background()
	reviewRepo := new(mocks.MockReviewRepository)

	reviewRepo.On("List", ctx).Return([]entity.Review{}, nil)

	service := NewReviewService(reviewRepo, messaging.NopPublisher{})

	// Act
	result, err := service.ListReviews(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.NotNil(t, result.Reviews)
}

func TestReviewService_ListReviews_Error(t *testing.T) {
	// Arrange
	ctx := context.Background()
	reviewRepo := new(mocks.MockReviewRepository)

	reviewRepo.On("List", ctx).Return(nil, errors.New("timeout"))

	service := NewReviewService(reviewRepo, messaging.NopPublisher{})

	// Act
	result, err := service.ListReviews(ctx)

	// Assert
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestReviewService_PlaceReview_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	reviewRepo := new(mocks.MockReviewRepository)
	publisher := new(mocks.MockMessagePublisher)

	review := entity.Review{"email": "ann@example.com", "text": "great watch"}
	reviewRepo.On("UpsertByEmail", ctx, review).Return(&entity.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil)
	publisher.On("PublishMessage", mock.Anything, "ann@example.com", mock.Anything).Return(nil)

	service := NewReviewService(reviewRepo, publisher)

	// Act
	result, err := service.PlaceReview(ctx, review)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.MatchedCount)
	publisher.AssertExpectations(t)
}

func TestReviewService_PlaceReview_EmailRequired(t *testing.T) {
	testCases := []struct {
		name   string
		review entity.Review
	}{
		{name: "Missing email", review: entity.Review{"text": "no author"}},
		{name: "Empty email", review: entity.Review{"email": ""}},
		{name: "Non-string email", review: entity.Review{"email": 42}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reviewRepo := new(mocks.MockReviewRepository)
			service := NewReviewService(reviewRepo, messaging.NopPublisher{})

			_, err := service.PlaceReview(context.Background(), tc.review)

			assert.ErrorIs(t, err, ErrEmailRequired)
			reviewRepo.AssertNotCalled(t, "UpsertByEmail", mock.Anything, mock.Anything)
		})
	}
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/infrastructure/messaging"
	"timezone/store-service/internal/app/store/repository"
	"timezone/store-service/internal/app/store/repository/mocks"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ==================== ListUserOrders Tests ====================

func TestOrderService_ListUserOrders_Self(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)

	orders := []entity.Order{{"userEmail": "ann@example.com", "status": "pending"}}
	orderRepo.On("ListByUserEmail", ctx, "ann@example.com").Return(orders, nil)

	service := NewOrderService(orderRepo, messaging.NopPublisher{})

	// Act
	result, err := service.ListUserOrders(ctx, entity.Verified("ann@example.com"), "ann@example.com")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, orders, result)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_ListUserOrders_Denied(t *testing.T) {
	testCases := []struct {
		name     string
		identity entity.Identity
		email    string
	}{
		{name: "Other user", identity: entity.Verified("bob@example.com"), email: "ann@example.com"},
		{name: "Anonymous", identity: entity.Anonymous(), email: "ann@example.com"},
		{name: "Invalid token", identity: entity.Invalid(), email: "ann@example.com"},
		{name: "Anonymous without email", identity: entity.Anonymous(), email: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := new(mocks.MockOrderRepository)
			service := NewOrderService(orderRepo, messaging.NopPublisher{})

			result, err := service.ListUserOrders(context.Background(), tc.identity, tc.email)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrNotAuthorized)
			orderRepo.AssertNotCalled(t, "ListByUserEmail", mock.Anything, mock.Anything)
		})
	}
}

// ==================== ListAllOrders Tests ====================

func TestOrderService_ListAllOrders_AnyVerifiedSelf(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)

	orders := []entity.Order{
		{"userEmail": "ann@example.com"},
		{"userEmail": "bob@example.com"},
	}
	orderRepo.On("ListAll", ctx).Return(orders, nil)

	service := NewOrderService(orderRepo, messaging.NopPublisher{})

	// Act
	result, err := service.ListAllOrders(ctx, entity.Verified("bob@example.com"), "bob@example.com")

	// Assert
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestOrderService_ListAllOrders_Mismatch(t *testing.T) {
	// Arrange
	orderRepo := new(mocks.MockOrderRepository)
	service := NewOrderService(orderRepo, messaging.NopPublisher{})

	// Act
	_, err := service.ListAllOrders(context.Background(), entity.Verified("bob@example.com"), "admin@example.com")

	// Assert
	assert.ErrorIs(t, err, ErrNotAuthorized)
	orderRepo.AssertNotCalled(t, "ListAll", mock.Anything)
}

// ==================== CreateOrder Tests ====================

func TestOrderService_CreateOrder_PublishesEvent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)
	publisher := new(mocks.MockMessagePublisher)

	insertedID := primitive.NewObjectID()
	order := entity.Order{"userEmail": "ann@example.com", "status": "pending"}
	orderRepo.On("Create", ctx, order).Return(&entity.InsertResult{Acknowledged: true, InsertedID: insertedID}, nil)
	publisher.On("PublishMessage", mock.Anything, insertedID.Hex(), mock.Anything).Return(nil)

	service := NewOrderService(orderRepo, publisher)

	// Act
	result, err := service.CreateOrder(ctx, order)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, insertedID, result.InsertedID)
	publisher.AssertExpectations(t)

	require.Len(t, publisher.Messages, 1)
	var event entity.StoreEvent
	require.NoError(t, json.Unmarshal(publisher.Messages[0], &event))
	assert.Equal(t, entity.EventOrderCreated, event.EventType)
	assert.Equal(t, "ann@example.com", event.Email)
	assert.Equal(t, "pending", event.Status)
}

func TestOrderService_CreateOrder_PublishFailureIgnored(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)
	publisher := new(mocks.MockMessagePublisher)

	order := entity.Order{"userEmail": "ann@example.com"}
	orderRepo.On("Create", ctx, order).Return(&entity.InsertResult{Acknowledged: true, InsertedID: primitive.NewObjectID()}, nil)
	publisher.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))

	service := NewOrderService(orderRepo, publisher)

	// Act
	result, err := service.CreateOrder(ctx, order)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Acknowledged)
}

func TestOrderService_CreateOrder_RepositoryError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)
	publisher := new(mocks.MockMessagePublisher)

	order := entity.Order{"userEmail": "ann@example.com"}
	orderRepo.On("Create", ctx, order).Return(nil, errors.New("write failed"))

	service := NewOrderService(orderRepo, publisher)

	// Act
	result, err := service.CreateOrder(ctx, order)

	// Assert
	assert.Nil(t, result)
	assert.Error(t, err)
	publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

// ==================== UpdateOrderStatus Tests ====================

func TestOrderService_UpdateOrderStatus_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)
	publisher := new(mocks.MockMessagePublisher)

	id := primitive.NewObjectID().Hex()
	orderRepo.On("UpdateStatus", ctx, id, "shipped").Return(&entity.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil)
	publisher.On("PublishMessage", mock.Anything, id, mock.Anything).Return(nil)

	service := NewOrderService(orderRepo, publisher)

	// Act
	result, err := service.UpdateOrderStatus(ctx, id, "shipped")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ModifiedCount)
	publisher.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_NoMatchNoEvent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)
	publisher := new(mocks.MockMessagePublisher)

	id := primitive.NewObjectID().Hex()
	orderRepo.On("UpdateStatus", ctx, id, "shipped").Return(&entity.UpdateResult{Acknowledged: true}, nil)

	service := NewOrderService(orderRepo, publisher)

	// Act
	result, err := service.UpdateOrderStatus(ctx, id, "shipped")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.MatchedCount)
	publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_InvalidID(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)

	orderRepo.On("UpdateStatus", ctx, "nope", "shipped").Return(nil, repository.ErrInvalidID)

	service := NewOrderService(orderRepo, messaging.NopPublisher{})

	// Act
	_, err := service.UpdateOrderStatus(ctx, "nope", "shipped")

	// Assert
	assert.ErrorIs(t, err, ErrInvalidID)
}

// ==================== DeleteOrder Tests ====================

func TestOrderService_DeleteOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)

	id := primitive.NewObjectID().Hex()
	orderRepo.On("Delete", ctx, id).Return(&entity.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil)
	orderRepo.On("Delete", ctx, "bad").Return(nil, repository.ErrInvalidID)

	service := NewOrderService(orderRepo, messaging.NopPublisher{})

	// Act
	result, err := service.DeleteOrder(ctx, id)
	_, badErr := service.DeleteOrder(ctx, "bad")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.DeletedCount)
	assert.ErrorIs(t, badErr, ErrInvalidID)
}

// ==================== RefreshStatusStats Tests ====================

func gaugeValue(t *testing.T, status string) float64 {
	var m dto.Metric
	require.NoError(t, metrics.OrdersByStatus.WithLabelValues(status).Write(&m))
	return m.GetGauge().GetValue()
}

func TestOrderService_RefreshStatusStats(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)

	orderRepo.On("CountByStatus", ctx).Return([]entity.OrderStatusCount{
		{Status: "pending", Count: 3},
		{Status: "shipped", Count: 1},
		{Status: nil, Count: 2},
	}, nil)

	service := NewOrderService(orderRepo, messaging.NopPublisher{})

	// Act
	err := service.RefreshStatusStats(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, float64(3), gaugeValue(t, "pending"))
	assert.Equal(t, float64(1), gaugeValue(t, "shipped"))
	assert.Equal(t, float64(2), gaugeValue(t, "none"))
}

func TestOrderService_RefreshStatusStats_Error(t *testing.T) {
	// Arrange
	ctx := context.Background()
	orderRepo := new(mocks.MockOrderRepository)

	orderRepo.On("CountByStatus", ctx).Return(nil, errors.New("aggregate failed"))

	service := NewOrderService(orderRepo, messaging.NopPublisher{})

	// Act
	err := service.RefreshStatusStats(ctx)

	// Assert
	assert.Error(t, err)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "none", statusLabel(nil))
	assert.Equal(t, "none", statusLabel(""))
	assert.Equal(t, "delivered", statusLabel("delivered"))
	assert.Equal(t, "2", statusLabel(int32(2)))
}

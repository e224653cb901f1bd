package service

import (
	"context"
	"errors"
	"fmt"

	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/infrastructure"
	"timezone/store-service/internal/app/store/repository"
)

// OrderService обрабатывает заказы. Доступ к спискам открыт только
// пользователю, чей проверенный email совпадает с запрошенным
type OrderService struct {
	orderRepo repository.OrderRepository
	events    eventPublisher
}

func NewOrderService(orderRepo repository.OrderRepository, publisher infrastructure.MessagePublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		events:    eventPublisher{publisher: publisher},
	}
}

// ListUserOrders - заказы с userEmail == email
func (s *OrderService) ListUserOrders(ctx context.Context, identity entity.Identity, email string) ([]entity.Order, error) {
	if !isSelf(identity, email) {
		return nil, ErrNotAuthorized
	}

	orders, err := s.orderRepo.ListByUserEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}

	return orders, nil
}

// ListAllOrders отдает все заказы любому проверенному пользователю,
// передавшему свой email. Проверки роли здесь нет
func (s *OrderService) ListAllOrders(ctx context.Context, identity entity.Identity, email string) ([]entity.Order, error) {
	if !isSelf(identity, email) {
		return nil, ErrNotAuthorized
	}

	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, order entity.Order) (*entity.InsertResult, error) {
	result, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	s.events.publish(ctx, entity.StoreEvent{
		EventType: entity.EventOrderCreated,
		EntityID:  idString(result.InsertedID),
		Email:     entity.StringField(order, entity.FieldUserEmail),
		Status:    order[entity.FieldStatus],
	})

	return result, nil
}

// UpdateOrderStatus меняет только status, значение не проверяется
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status interface{}) (*entity.UpdateResult, error) {
	result, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrInvalidID
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if result.MatchedCount > 0 {
		metrics.OrderStatusUpdates.Inc()
		s.events.publish(ctx, entity.StoreEvent{
			EventType: entity.EventOrderStatusUpdated,
			EntityID:  id,
			Status:    status,
		})
	}

	return result, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) (*entity.DeleteResult, error) {
	result, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrInvalidID
		}
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	return result, nil
}

// RefreshStatusStats пересчитывает gauge orders_by_status по всей коллекции
func (s *OrderService) RefreshStatusStats(ctx context.Context) error {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to count orders by status: %w", err)
	}

	metrics.OrdersByStatus.Reset()
	for _, c := range counts {
		metrics.OrdersByStatus.WithLabelValues(statusLabel(c.Status)).Set(float64(c.Count))
	}

	return nil
}

func statusLabel(status interface{}) string {
	if status == nil {
		return "none"
	}
	if s, ok := status.(string); ok {
		if s == "" {
			return "none"
		}
		return s
	}
	return fmt.Sprint(status)
}

// isSelf - запрос идет от проверенного пользователя про самого себя
func isSelf(identity entity.Identity, email string) bool {
	verified, ok := identity.VerifiedEmail()
	return ok && verified == email
}

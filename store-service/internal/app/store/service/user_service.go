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

// UserService управляет пользователями и ролью admin.
// Роль меняется только в одну сторону: user -> admin
type UserService struct {
	userRepo repository.UserRepository
	events   eventPublisher
}

func NewUserService(userRepo repository.UserRepository, publisher infrastructure.MessagePublisher) *UserService {
	return &UserService{
		userRepo: userRepo,
		events:   eventPublisher{publisher: publisher},
	}
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// IsAdmin - false и для неизвестного email
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}

	return entity.IsAdmin(user), nil
}

// CreateUser всегда создает пользователя с ролью user, роль из запроса игнорируется
func (s *UserService) CreateUser(ctx context.Context, user entity.User) (*entity.InsertResult, error) {
	user[entity.FieldRole] = entity.RoleUser

	result, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.UsersCreated.Inc()
	return result, nil
}

// UpsertUser сохраняет пользователя при входе. Если запись уже есть,
// в базу записывается она же, а тело запроса отбрасывается целиком:
// через этот метод нельзя поменять ни роль, ни другие поля
func (s *UserService) UpsertUser(ctx context.Context, user entity.User) (*entity.UpdateResult, error) {
	email := entity.StringField(user, entity.FieldEmail)
	if email == "" {
		return nil, ErrEmailRequired
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		user = existing
	case errors.Is(err, repository.ErrNotFound):
		user[entity.FieldRole] = entity.RoleUser
	default:
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	result, err := s.userRepo.UpsertByEmail(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if result.UpsertedCount > 0 {
		metrics.UsersCreated.Inc()
	}

	return result, nil
}

// PromoteToAdmin назначает targetEmail администратором. Требуется проверенный
// пользователь, чья собственная запись имеет роль admin
func (s *UserService) PromoteToAdmin(ctx context.Context, identity entity.Identity, targetEmail string) (*entity.UpdateResult, error) {
	requesterEmail, ok := identity.VerifiedEmail()
	if !ok {
		return nil, ErrNotAuthorized
	}

	requester, err := s.userRepo.GetByEmail(ctx, requesterEmail)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get requester: %w", err)
	}
	if !entity.IsAdmin(requester) {
		metrics.UserPromotions.WithLabelValues("denied").Inc()
		return nil, ErrForbidden
	}

	result, err := s.userRepo.SetRole(ctx, targetEmail, entity.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	metrics.UserPromotions.WithLabelValues("granted").Inc()
	if result.MatchedCount > 0 {
		s.events.publish(ctx, entity.StoreEvent{
			EventType: entity.EventUserPromoted,
			Email:     targetEmail,
		})
	}

	return result, nil
}

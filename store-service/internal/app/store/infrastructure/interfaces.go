package infrastructure

import (
	"context"

	"timezone/store-service/internal/app/store/entity"
)

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ProductCache кеширует выдачу GET /products отдельно для каждого limit.
// GetProducts возвращает nil, nil при промахе
type ProductCache interface {
	GetProducts(ctx context.Context, limit int64) ([]entity.Product, error)
	SetProducts(ctx context.Context, limit int64, products []entity.Product) error
	InvalidateProducts(ctx context.Context) error
	Close() error
}

// IdentityVerifier проверяет bearer-токен и возвращает подтвержденного пользователя
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*entity.Principal, error)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"timezone/pkg/logger"
	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/infrastructure"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const publishTimeout = 3 * time.Second

// eventPublisher отправляет доменные события в Kafka.
// Ошибка отправки только логируется: запись в MongoDB уже выполнена
type eventPublisher struct {
	publisher infrastructure.MessagePublisher
}

func (p eventPublisher) publish(ctx context.Context, event entity.StoreEvent) {
	if p.publisher == nil {
		return
	}
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Str("event_type", event.EventType).Msg("Failed to marshal store event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// Ключ - идентификатор сущности, иначе email: порядок событий сохраняется в партиции
	key := event.EntityID
	if key == "" {
		key = event.Email
	}

	if err := p.publisher.PublishMessage(ctx, key, data); err != nil {
		logger.Warn().Err(err).Str("event_type", event.EventType).Msg("Failed to publish store event")
	}
}

// idString приводит идентификатор MongoDB к строке для событий и логов
func idString(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

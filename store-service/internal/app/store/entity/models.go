package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Товары, заказы, отзывы и пользователи хранятся как документы произвольной
// схемы: сервис сохраняет тело запроса как есть и опирается только на
// несколько известных полей (см. константы ниже)
type (
	Product = bson.M
	Order   = bson.M
	Review  = bson.M
	User    = bson.M
)

const (
	FieldID        = "_id"
	FieldEmail     = "email"     // ключ отзыва и пользователя
	FieldUserEmail = "userEmail" // владелец заказа
	FieldStatus    = "status"
	FieldRole      = "role"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// StringField возвращает строковое поле документа или "", если поля нет
// или оно другого типа
func StringField(doc bson.M, key string) string {
	if doc == nil {
		return ""
	}
	value, _ := doc[key].(string)
	return value
}

// IsAdmin - роль пользователя ровно "admin"
func IsAdmin(user User) bool {
	return StringField(user, FieldRole) == RoleAdmin
}

// IdentityState - результат проверки bearer-токена
type IdentityState int

const (
	IdentityAnonymous IdentityState = iota // заголовка нет
	IdentityVerified                       // токен проверен, email известен
	IdentityInvalid                        // токен был, но проверку не прошел
)

func (s IdentityState) String() string {
	switch s {
	case IdentityVerified:
		return "verified"
	case IdentityInvalid:
		return "invalid"
	default:
		return "anonymous"
	}
}

// Identity прикрепляется к каждому запросу middleware аутентификации.
// Invalid для обработчиков равнозначен Anonymous
type Identity struct {
	State IdentityState
	Email string
}

func Anonymous() Identity {
	return Identity{State: IdentityAnonymous}
}

func Verified(email string) Identity {
	return Identity{State: IdentityVerified, Email: email}
}

func Invalid() Identity {
	return Identity{State: IdentityInvalid}
}

// VerifiedEmail возвращает email только для проверенной личности
func (i Identity) VerifiedEmail() (string, bool) {
	if i.State != IdentityVerified || i.Email == "" {
		return "", false
	}
	return i.Email, true
}

// Principal - то, что возвращает проверка токена
type Principal struct {
	Email   string
	Subject string
}

const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusUpdated = "ORDER_STATUS_UPDATED"
	EventReviewPlaced       = "REVIEW_PLACED"
	EventUserPromoted       = "USER_PROMOTED"
)

// StoreEvent - доменное событие для Kafka
type StoreEvent struct {
	EventType string      `json:"event_type"`
	EntityID  string      `json:"entity_id,omitempty"`
	Email     string      `json:"email,omitempty"`
	Status    interface{} `json:"status,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// OrderStatusCount - строка агрегации заказов по статусу
type OrderStatusCount struct {
	Status interface{} `bson:"_id"`
	Count  int64       `bson:"count"`
}

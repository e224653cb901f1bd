package entity

// Ответы на запись повторяют подтверждения MongoDB: acknowledged, счетчики и id

type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// ReviewListResponse - ответ GET /reviews
type ReviewListResponse struct {
	Count   int      `json:"count"`
	Reviews []Review `json:"reviews"`
}

// AdminStatusResponse - ответ GET /users/:email
type AdminStatusResponse struct {
	Admin bool `json:"admin"`
}

// UpdateOrderStatusRequest - значение статуса не проверяется
type UpdateOrderStatusRequest struct {
	Status interface{} `json:"status"`
}

// PromoteAdminRequest - формат email не проверяется: чужой адрес дает matchedCount 0
type PromoteAdminRequest struct {
	Email string `json:"email" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

package handler

import (
	"errors"
	"net/http"

	"timezone/pkg/logger"
	"timezone/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgInvalidID     = "invalid identifier"
	msgEmailRequired = "email is required"
	msgNotAuthorized = "User not authorized"
	msgPromoteUnauth = "you are not authorized to make this user admin"
	msgPromoteDenied = "only admins can promote users"
)

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// respondError переводит ошибку service layer в HTTP-ответ.
// 401 обработчики отдают сами: текст зависит от маршрута
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		respondMessage(c, http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, service.ErrEmailRequired):
		respondMessage(c, http.StatusBadRequest, msgEmailRequired)
	case errors.Is(err, service.ErrForbidden):
		respondMessage(c, http.StatusForbidden, msgPromoteDenied)
	default:
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg(action)
		respondMessage(c, http.StatusInternalServerError, action)
	}
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field() + " validation failed"
	}
	return "Validation failed"
}

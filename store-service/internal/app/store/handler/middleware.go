package handler

import (
	"strings"

	"timezone/pkg/logger"
	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/infrastructure"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware определяет, кто делает запрос. Сам запрос никогда не
// отклоняет: решение принимают обработчики по entity.Identity
type AuthMiddleware struct {
	verifier infrastructure.IdentityVerifier
}

func NewAuthMiddleware(verifier infrastructure.IdentityVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := m.resolve(c)

		metrics.AuthIdentities.WithLabelValues(identity.State.String()).Inc()
		c.Set(identityKey, identity)
		c.Set(logger.IdentityStateKey, identity.State.String())

		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) entity.Identity {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return entity.Anonymous()
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		logger.Debug().
			Str("path", c.Request.URL.Path).
			Msg("Malformed authorization header")
		return entity.Invalid()
	}

	principal, err := m.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		logger.Debug().
			Err(err).
			Str("path", c.Request.URL.Path).
			Msg("Bearer token rejected")
		return entity.Invalid()
	}

	return entity.Verified(principal.Email)
}

// IdentityFromContext - Anonymous, если middleware не подключен к маршруту
func IdentityFromContext(c *gin.Context) entity.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return entity.Anonymous()
	}
	identity, ok := value.(entity.Identity)
	if !ok {
		return entity.Anonymous()
	}
	return identity
}

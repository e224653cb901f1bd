package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"timezone/store-service/internal/app/store/infrastructure/cache"
	"timezone/store-service/internal/app/store/infrastructure/identity"
	"timezone/store-service/internal/app/store/infrastructure/messaging"
	"timezone/store-service/internal/app/store/repository/mocks"
	"timezone/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSecret = "test-secret-key"

// Хелперы для создания тестового окружения

type testEnv struct {
	router      *gin.Engine
	productRepo *mocks.MockProductRepository
	orderRepo   *mocks.MockOrderRepository
	reviewRepo  *mocks.MockReviewRepository
	userRepo    *mocks.MockUserRepository
}

func newTestEnv(checks map[string]HealthCheck) *testEnv {
	env := &testEnv{
		productRepo: new(mocks.MockProductRepository),
		orderRepo:   new(mocks.MockOrderRepository),
		reviewRepo:  new(mocks.MockReviewRepository),
		userRepo:    new(mocks.MockUserRepository),
	}

	publisher := messaging.NopPublisher{}
	verifier := identity.NewJWTVerifier(testSecret, "", "")

	env.router = SetupRoutes(
		NewProductHandler(service.NewProductService(env.productRepo, cache.NopProductCache{})),
		NewOrderHandler(service.NewOrderService(env.orderRepo, publisher)),
		NewReviewHandler(service.NewReviewService(env.reviewRepo, publisher)),
		NewUserHandler(service.NewUserService(env.userRepo, publisher)),
		NewHealthHandler(serviceName, checks),
		NewAuthMiddleware(verifier),
	)

	return env
}

func (e *testEnv) do(method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func bearer(t *testing.T, email string) map[string]string {
	t.Helper()
	claims := identity.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-" + email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response["message"]
}

var errStore = errors.New("server selection timeout")

func okCheck(context.Context) error { return nil }

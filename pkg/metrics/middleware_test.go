package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/products/:id", normalizePath("/products/:id", "/products/6500aa"))
	assert.Equal(t, "/", normalizePath("", "/"))
	assert.Equal(t, "unmatched", normalizePath("", "/does/not/exist"))
}

func TestGinPrometheusMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinPrometheusMiddleware("metrics-test"))
	router.GET("/products/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	before := counterValue(t, HttpRequestsTotal.WithLabelValues("metrics-test", http.MethodGet, "/products/:id", "200"))

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	after := counterValue(t, HttpRequestsTotal.WithLabelValues("metrics-test", http.MethodGet, "/products/:id", "200"))
	assert.Equal(t, 3.0, after-before)
}

func TestDbTimer_FailCountsOnlyErrors(t *testing.T) {
	timer := NewDbTimer("metrics-test", DbOpFind, "orders")
	counter := DbErrors.WithLabelValues("metrics-test", string(DbOpFind), "orders")
	before := counterValue(t, counter)

	assert.NoError(t, timer.Fail(nil))
	assert.Error(t, timer.Fail(assert.AnError))

	assert.Equal(t, 1.0, counterValue(t, counter)-before)
}

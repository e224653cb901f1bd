package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"timezone/pkg/logger"
	"timezone/pkg/metrics"
)

const serviceName = "store-service"

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	productHandler *ProductHandler,
	orderHandler *OrderHandler,
	reviewHandler *ReviewHandler,
	userHandler *UserHandler,
	healthHandler *HealthHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "items"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/", healthHandler.Liveness)
	router.GET("/health", healthHandler.Health)

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Товары
	router.GET("/products", productHandler.ListProducts)
	router.GET("/products/:id", productHandler.GetProduct)
	router.POST("/product", productHandler.CreateProduct)
	router.DELETE("/product/:id", productHandler.DeleteProduct)

	// Заказы: списки доступны только проверенному пользователю про самого себя
	identify := authMiddleware.Identify()
	router.GET("/userorders", identify, orderHandler.ListUserOrders)
	router.GET("/manageorders", identify, orderHandler.ListAllOrders)
	router.POST("/order", orderHandler.CreateOrder)
	router.PUT("/manageorders/:id", orderHandler.UpdateOrderStatus)
	router.DELETE("/order/:id", orderHandler.DeleteOrder)

	// Отзывы
	router.GET("/reviews", reviewHandler.ListReviews)
	router.PUT("/placereview", reviewHandler.PlaceReview)

	// Пользователи
	router.GET("/users", userHandler.ListUsers)
	router.GET("/users/:email", userHandler.GetAdminStatus)
	router.POST("/users", userHandler.CreateUser)
	router.PUT("/users", userHandler.UpsertUser)
	router.PUT("/users/admin", identify, userHandler.PromoteAdmin)

	return router
}

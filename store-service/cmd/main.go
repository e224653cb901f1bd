package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"timezone/pkg/logger"
	"timezone/store-service/internal/app/store/config"
	"timezone/store-service/internal/app/store/handler"
	"timezone/store-service/internal/app/store/infrastructure"
	"timezone/store-service/internal/app/store/infrastructure/cache"
	"timezone/store-service/internal/app/store/infrastructure/identity"
	"timezone/store-service/internal/app/store/infrastructure/messaging"
	"timezone/store-service/internal/app/store/processor"
	"timezone/store-service/internal/app/store/repository"
	"timezone/store-service/internal/app/store/service"
)

const serviceName = "store-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(serviceName, logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	healthChecks := map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		},
	}

	// Кеш товаров в Redis (опционально)
	var productCache infrastructure.ProductCache = cache.NopProductCache{}
	if cfg.Redis.Enabled() {
		redisClient, err := cache.Connect(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis, product cache disabled")
		} else {
			productCache = cache.NewRedisProductCache(redisClient, cfg.Redis.ProductTTL)
			healthChecks["redis"] = redisPing(redisClient)
			logger.Info().
				Str("addr", cfg.Redis.Addr).
				Dur("ttl", cfg.Redis.ProductTTL).
				Msg("Connected to Redis")
		}
	}
	defer productCache.Close()

	// Kafka producer для доменных событий (опционально)
	var publisher infrastructure.MessagePublisher = messaging.NopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher = messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Initialized Kafka producer")
	}
	defer publisher.Close()

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)

	productService := service.NewProductService(productRepo, productCache)
	orderService := service.NewOrderService(orderRepo, publisher)
	reviewService := service.NewReviewService(reviewRepo, publisher)
	userService := service.NewUserService(userRepo, publisher)

	verifier := identity.NewJWTVerifier(cfg.Identity.Secret, cfg.Identity.Issuer, cfg.Identity.Audience)

	router := handler.SetupRoutes(
		handler.NewProductHandler(productService),
		handler.NewOrderHandler(orderService),
		handler.NewReviewHandler(reviewService),
		handler.NewUserHandler(userService),
		handler.NewHealthHandler(serviceName, healthChecks),
		handler.NewAuthMiddleware(verifier),
	)

	// Фоновый пересчет заказов по статусам
	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	var scheduler *processor.CronScheduler
	if cfg.Stats.Enabled() {
		scheduler = processor.NewCronScheduler(orderService)
		if err := scheduler.Start(jobCtx, cfg.Stats.Schedule); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Stats.Schedule).Msg("Failed to start cron scheduler")
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Store Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Store Service...")

	stopJobs()
	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Store Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		client, err = tryConnect(clientOptions)
		if err == nil {
			return client, nil
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

func tryConnect(clientOptions *options.ClientOptions) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

func redisPing(client *redis.Client) handler.HealthCheck {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Identity IdentityConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Stats    StatsConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (PORT или SERVER_PORT, по умолчанию 5000)
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных
}

// IdentityConfig - параметры проверки bearer-токенов.
// Issuer и Audience проверяются, только если заданы
type IdentityConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// RedisConfig - кеш списка товаров. Пустой Addr отключает кеш
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	ProductTTL time.Duration
}

func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// KafkaConfig - публикация доменных событий. Пустой список брокеров отключает публикацию
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type StatsConfig struct {
	Schedule string // cron-выражение пересчета заказов по статусам, "off" отключает задачу
}

func (c *StatsConfig) Enabled() bool {
	return c.Schedule != "" && c.Schedule != "off"
}

var ErrMissingSecret = errors.New("AUTH_JWT_SECRET is required")

func Load() (*Config, error) {
	productTTL, err := time.ParseDuration(getEnv("PRODUCT_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRODUCT_CACHE_TTL: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "5000")),
		},
		MongoDB: MongoDBConfig{
			URI:      mongoURI(),
			Database: getEnv("MONGODB_DATABASE", "timezone"),
		},
		Identity: IdentityConfig{
			Secret:   os.Getenv("AUTH_JWT_SECRET"),
			Issuer:   os.Getenv("AUTH_ISSUER"),
			Audience: os.Getenv("AUTH_AUDIENCE"),
		},
		Redis: RedisConfig{
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			ProductTTL: productTTL,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "store_events"),
		},
		Stats: StatsConfig{
			Schedule: getEnv("ORDER_STATS_SCHEDULE", "@every 1m"),
		},
	}

	if cfg.Identity.Secret == "" {
		return nil, ErrMissingSecret
	}

	return cfg, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// mongoURI берет MONGODB_URI целиком, иначе собирает Atlas URI из DB_USER/DB_PASS/DB_CLUSTER
func mongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}

	user, pass := os.Getenv("DB_USER"), os.Getenv("DB_PASS")
	if user == "" || pass == "" {
		return "mongodb://localhost:27017"
	}

	cluster := getEnv("DB_CLUSTER", "cluster0.l19vq.mongodb.net")
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority", user, pass, cluster)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
)

const (
	serviceName     = "store-service"
	productsPrefix  = "products"
	productsKeyMask = productsPrefix + ":list:*"
)

// RedisProductCache хранит выдачу списка товаров под ключом products:list:<limit>
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

// Connect создает клиента и проверяет соединение
func Connect(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func productsKey(limit int64) string {
	return productsPrefix + ":list:" + strconv.FormatInt(limit, 10)
}

func (c *RedisProductCache) GetProducts(ctx context.Context, limit int64) ([]entity.Product, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := c.client.Get(ctx, productsKey(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(serviceName, productsPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get products from cache: %w", err)
	}

	// Extended JSON сохраняет ObjectID и даты при обратном чтении
	var wrapper struct {
		Items []bson.M `bson:"items"`
	}
	if err := decodeExtJSON(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached products: %w", err)
	}
	if wrapper.Items == nil {
		wrapper.Items = make([]bson.M, 0)
	}

	metrics.RecordCacheHit(serviceName, productsPrefix)
	return wrapper.Items, nil
}

// decodeExtJSON декодирует вложенные документы в bson.M, как и репозитории
func decodeExtJSON(data []byte, v interface{}) error {
	vr, err := bsonrw.NewExtJSONValueReader(bytes.NewReader(data), false)
	if err != nil {
		return err
	}

	dec, err := bson.NewDecoder(vr)
	if err != nil {
		return err
	}
	dec.DefaultDocumentM()

	return dec.Decode(v)
}

func (c *RedisProductCache) SetProducts(ctx context.Context, limit int64, products []entity.Product) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := bson.MarshalExtJSON(bson.M{"items": products}, false, false)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	if err := c.client.Set(ctx, productsKey(limit), data, c.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set products in cache: %w", err)
	}

	return nil
}

// InvalidateProducts удаляет все закешированные списки товаров
func (c *RedisProductCache) InvalidateProducts(ctx context.Context) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpScan)
	defer timer.ObserveDuration()

	var keys []string
	iter := c.client.Scan(ctx, 0, productsKeyMask, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpScan)
		return fmt.Errorf("failed to scan product keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete products from cache: %w", err)
	}

	return nil
}

func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

// NopProductCache используется, когда REDIS_ADDR не задан: всегда промах
type NopProductCache struct{}

func (NopProductCache) GetProducts(context.Context, int64) ([]entity.Product, error) { return nil, nil }

func (NopProductCache) SetProducts(context.Context, int64, []entity.Product) error { return nil }

func (NopProductCache) InvalidateProducts(context.Context) error { return nil }

func (NopProductCache) Close() error { return nil }

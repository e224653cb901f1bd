package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"timezone/pkg/logger"
	"timezone/pkg/metrics"
	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/infrastructure"
	"timezone/store-service/internal/app/store/repository"
)

// ProductService - каталог товаров, список кешируется в Redis
type ProductService struct {
	productRepo repository.ProductRepository
	cache       infrastructure.ProductCache
	// generation растет при каждой записи в каталог
	generation  atomic.Uint64
}

func NewProductService(productRepo repository.ProductRepository, cache infrastructure.ProductCache) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
	}
}

// ListProducts возвращает не больше limit товаров (limit <= 0 - все).
// Недоступный кеш не ломает выдачу
func (s *ProductService) ListProducts(ctx context.Context, limit int64) ([]entity.Product, error) {
	if limit < 0 {
		limit = 0
	}

	cached, err := s.cache.GetProducts(ctx, limit)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read products from cache")
	} else if cached != nil {
		return cached, nil
	}

	generation := s.generation.Load()
	products, err := s.productRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	// Каталог изменился во время чтения: список мог устареть
	if s.generation.Load() != generation {
		return products, nil
	}

	if err := s.cache.SetProducts(ctx, limit, products); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache products")
	}

	return products, nil
}

// GetProduct возвращает nil без ошибки, если товара нет
func (s *ProductService) GetProduct(ctx context.Context, id string) (entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrInvalidID
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// CreateProduct сохраняет тело запроса как есть
func (s *ProductService) CreateProduct(ctx context.Context, product entity.Product) (*entity.InsertResult, error) {
	result, err := s.productRepo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsCreated.Inc()
	s.invalidate(ctx)

	return result, nil
}

// DeleteProduct: отсутствие товара - не ошибка, deletedCount будет 0
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*entity.DeleteResult, error) {
	result, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, ErrInvalidID
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount > 0 {
		metrics.ProductsDeleted.Add(float64(result.DeletedCount))
		s.invalidate(ctx)
	}

	return result, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	s.generation.Add(1)
	if err := s.cache.InvalidateProducts(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate products cache")
	}
}

package usecase

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"phonemart/internal/domain/entity"
	"phonemart/internal/domain/repository"
	"phonemart/pkg/logger"
)

const defaultCatalogTTL = 60 * time.Second

// CatalogUseCase is the sole gateway to the product collection. It holds
// the in-memory product list, refreshes it from the store once the TTL
// has passed, and collapses concurrent refreshes into a single store
// round trip that every caller shares.
type CatalogUseCase struct {
	productRepo repository.ProductRepository
	ttl         time.Duration

	mu       sync.Mutex
	cached   []*entity.Product
	loadedAt time.Time

	group singleflight.Group
	now   func() time.Time
}

func NewCatalogUseCase(productRepo repository.ProductRepository, ttl time.Duration) *CatalogUseCase {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogUseCase{
		productRepo: productRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Load returns the cached product list while it is fresh, otherwise
// fetches from the store. Callers arriving while a fetch is in flight
// join it and receive its result.
func (u *CatalogUseCase) Load(ctx context.Context, forceRefresh bool) ([]*entity.Product, error) {
	if !forceRefresh {
		u.mu.Lock()
		if u.cached != nil && u.now().Sub(u.loadedAt) < u.ttl {
			products := u.cached
			u.mu.Unlock()
			return products, nil
		}
		u.mu.Unlock()
	}

	result, err, _ := u.group.Do("catalog", func() (interface{}, error) {
		products, err := u.productRepo.List(ctx)
		if err != nil {
			return nil, err
		}

		if len(products) == 0 {
			// Anomalous on a live deployment. The empty list is served
			// but not cached, so the next load goes back to the store.
			logger.Warn("Catalog load returned zero products")
			return products, nil
		}

		u.mu.Lock()
		u.cached = products
		u.loadedAt = u.now()
		u.mu.Unlock()

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]*entity.Product), nil
}

// GetProduct serves a product from the cached list when possible and
// falls back to a direct store read.
func (u *CatalogUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	u.mu.Lock()
	if u.cached != nil && u.now().Sub(u.loadedAt) < u.ttl {
		for _, product := range u.cached {
			if product.ID == id {
				u.mu.Unlock()
				return product, nil
			}
		}
	}
	u.mu.Unlock()

	return u.productRepo.GetByID(ctx, id)
}

// Invalidate drops the cache and any in-flight load key so the next Load
// hits the store.
func (u *CatalogUseCase) Invalidate() {
	u.mu.Lock()
	u.cached = nil
	u.loadedAt = time.Time{}
	u.mu.Unlock()

	u.group.Forget("catalog")
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	products map[string]ProductInfo
	calls    int
}

func (f *fakeGateway) ListProducts(_ context.Context, _ *GetProductsReq) ([]ProductInfo, error) {
	f.calls++
	result := make([]ProductInfo, 0, len(f.products))
	for _, p := range f.products {
		result = append(result, p)
	}
	return result, nil
}

func (f *fakeGateway) GetProductBySlug(_ context.Context, slug, _ string) (*ProductInfo, error) {
	f.calls++
	p, ok := f.products[slug]
	if !ok {
		return nil, e.ErrNotFound
	}
	return &p, nil
}

func (f *fakeGateway) ListCategories(_ context.Context, _ string) ([]CategoryInfo, error) {
	f.calls++
	return []CategoryInfo{{ID: "1", Name: "Электроника", Slug: "electronics"}}, nil
}

type fakeCatalogCache struct {
	mu       sync.Mutex
	products map[string]ProductInfo
	getErr   error
}

func newFakeCatalogCache() *fakeCatalogCache {
	return &fakeCatalogCache{products: make(map[string]ProductInfo)}
}

func (f *fakeCatalogCache) GetProduct(_ context.Context, slug string) (*ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.products[slug]
	if !ok {
		return nil, e.ErrCacheMiss
	}
	return &p, nil
}

func (f *fakeCatalogCache) SetProducts(_ context.Context, products []ProductInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range products {
		f.products[p.Slug] = p
	}
	return nil
}

func (f *fakeCatalogCache) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products)
}

func TestCatalogUC_GetProductBySlug_CacheHitSkipsGateway(t *testing.T) {
	gateway := &fakeGateway{products: map[string]ProductInfo{}}
	cache := newFakeCatalogCache()
	cache.products["p1"] = ProductInfo{ID: "1", Slug: "p1", Title: "Товар"}

	uc := NewCatalogUC(gateway, cache, logger.NewSlogLogger())

	product, err := uc.GetProductBySlug(context.Background(), "p1", "")
	require.NoError(t, err)

	assert.Equal(t, "Товар", product.Title)
	assert.Equal(t, 0, gateway.calls)
}

func TestCatalogUC_GetProductBySlug_CacheMissFetchesAndWarms(t *testing.T) {
	gateway := &fakeGateway{products: map[string]ProductInfo{
		"p1": {ID: "1", Slug: "p1", Title: "Товар"},
	}}
	cache := newFakeCatalogCache()

	uc := NewCatalogUC(gateway, cache, logger.NewSlogLogger())

	product, err := uc.GetProductBySlug(context.Background(), "p1", "")
	require.NoError(t, err)

	assert.Equal(t, "1", product.ID)
	assert.Equal(t, 1, gateway.calls)
	assert.Eventually(t, func() bool { return cache.size() == 1 }, time.Second, 10*time.Millisecond)
}

func TestCatalogUC_GetProductBySlug_CacheErrorDegradesToGateway(t *testing.T) {
	gateway := &fakeGateway{products: map[string]ProductInfo{
		"p1": {ID: "1", Slug: "p1"},
	}}
	cache := newFakeCatalogCache()
	cache.getErr = fmt.Errorf("redis down")

	uc := NewCatalogUC(gateway, cache, logger.NewSlogLogger())

	product, err := uc.GetProductBySlug(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, "1", product.ID)
}

func TestCatalogUC_GetProducts_WarmsCacheInBackground(t *testing.T) {
	gateway := &fakeGateway{products: map[string]ProductInfo{
		"p1": {ID: "1", Slug: "p1"},
		"p2": {ID: "2", Slug: "p2"},
	}}
	cache := newFakeCatalogCache()

	uc := NewCatalogUC(gateway, cache, logger.NewSlogLogger())

	products, err := uc.GetProducts(context.Background(), NewGetProductsReq("", ""))
	require.NoError(t, err)

	assert.Len(t, products, 2)
	assert.Eventually(t, func() bool { return cache.size() == 2 }, time.Second, 10*time.Millisecond)
}

func TestCatalogUC_GetCategories(t *testing.T) {
	gateway := &fakeGateway{}
	uc := NewCatalogUC(gateway, nil, logger.NewSlogLogger())

	categories, err := uc.GetCategories(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "electronics", categories[0].Slug)
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
)

// CatalogUseCase отдаёт витринные данные удалённого каталога через кэш.
// Ядро корзины от него не зависит.
type CatalogUseCase struct {
	gateway   CommerceGateway
	cacheRepo CatalogCacheRepository
	logger    logger.Logger
}

func NewCatalogUC(gateway CommerceGateway, cacheRepo CatalogCacheRepository, logger logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		gateway:   gateway,
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// GetProducts возвращает список товаров удалённого каталога.
// Списки с поисковыми фильтрами не кэшируются, но карточки из ответа
// прогревают кэш в фоне.
func (c *CatalogUseCase) GetProducts(ctx context.Context, req *GetProductsReq) ([]ProductInfo, error) {
	const op = "CatalogUseCase.GetProducts"

	products, err := c.gateway.ListProducts(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if c.cacheRepo != nil && len(products) > 0 {
		// Фоновое добавление карточек в кэш
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := c.cacheRepo.SetProducts(bgCtx, products); err != nil {
				c.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	return products, nil
}

// GetProductBySlug возвращает карточку товара, предпочитая кэш.
// Промах и любая ошибка кэша деградируют до запроса к удалённому каталогу.
func (c *CatalogUseCase) GetProductBySlug(ctx context.Context, slug, token string) (*ProductInfo, error) {
	const op = "CatalogUseCase.GetProductBySlug"

	if c.cacheRepo != nil {
		product, err := c.cacheRepo.GetProduct(ctx, slug)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, e.ErrCacheMiss) {
			c.logger.Warnf("catalog cache read failed: %v", e.Wrap(op, err))
		}
	}

	product, err := c.gateway.GetProductBySlug(ctx, slug, token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if c.cacheRepo != nil {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := c.cacheRepo.SetProducts(bgCtx, []ProductInfo{*product}); err != nil {
				c.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
			}
		}()
	}

	return product, nil
}

// GetCategories возвращает список категорий каталога без кэширования.
func (c *CatalogUseCase) GetCategories(ctx context.Context, token string) ([]CategoryInfo, error) {
	const op = "CatalogUseCase.GetCategories"

	categories, err := c.gateway.ListCategories(ctx, token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

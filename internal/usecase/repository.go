package usecase

import (
	"context"

	"github.com/bazaarfly/go-storefront/internal/domain"
)

// CartStore — слот долговременного хранения снапшота корзины клиента.
// Save полностью перезаписывает снапшот. Load возвращает пустой список,
// если снапшот отсутствует или не читается: повреждённое состояние
// восстанавливается как пустая корзина, а не ошибка.
type CartStore interface {
	Load(ctx context.Context, clientID string) ([]domain.LineItem, error)
	Save(ctx context.Context, clientID string, items []domain.LineItem) error
	Delete(ctx context.Context, clientID string) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CheckoutRepository interface {
	Archive(ctx context.Context, snapshot *CheckoutSnapshot) error
}

// CatalogCacheRepository кэширует карточки товаров каталога.
// Возвращает e.ErrCacheMiss при отсутствии записи.
type CatalogCacheRepository interface {
	GetProduct(ctx context.Context, slug string) (*ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
}

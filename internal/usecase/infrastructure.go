package usecase

import "context"

// CommerceGateway — удалённый коммерческий бэкенд, владеющий каталогом,
// заказами и аутентификацией. Для ядра это непрозрачная best-effort зависимость.
type CommerceGateway interface {
	ListProducts(ctx context.Context, req *GetProductsReq) ([]ProductInfo, error)
	GetProductBySlug(ctx context.Context, slug, token string) (*ProductInfo, error)
	ListCategories(ctx context.Context, token string) ([]CategoryInfo, error)
}

// EventRecorder записывает событие корзины в журнал (outbox).
type EventRecorder interface {
	RecordEvent(ctx context.Context, event *OutboxEvent) error
}

// CheckoutRecorder транзакционно фиксирует оформление: архив снапшота + событие.
type CheckoutRecorder interface {
	RecordCheckout(ctx context.Context, snapshot *CheckoutSnapshot, event *OutboxEvent) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

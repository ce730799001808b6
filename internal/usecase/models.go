package usecase

import (
	"encoding/json"
	"time"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// CART USECASE

// AddItemReq — запрос на добавление строки в корзину.
type AddItemReq struct {
	ClientID  string
	ProductID string
	Title     string
	Slug      string
	Price     decimal.Decimal
	Quantity  int
	Image     *string
	Variation *domain.Variation
}

// CartRes — текущее состояние корзины с пересчитанными итогами.
type CartRes struct {
	Items  []domain.LineItem
	Totals domain.Totals
}

// CheckoutRes — результат оформления корзины.
type CheckoutRes struct {
	CheckoutID string
	Items      []domain.LineItem
	Totals     domain.Totals
}

// CheckoutSnapshot — архивный снапшот корзины на момент оформления.
type CheckoutSnapshot struct {
	CheckoutID string
	ClientID   string
	Items      []domain.LineItem
	TotalItems int
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// CATALOG USECASE

// GetProductsReq — запрос списка товаров каталога.
// Query передаётся удалённому бэкенду как есть (поиск, фильтры, пагинация).
type GetProductsReq struct {
	Query string
	Token string
}

// ProductInfo — DTO карточки товара из удалённого каталога.
type ProductInfo struct {
	ID           string
	Title        string
	Slug         string
	Price        string
	Image        *string
	CategoryName string
	Description  string
}

// CategoryInfo — DTO категории каталога.
type CategoryInfo struct {
	ID   string
	Name string
	Slug string
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	CartItemAdded       OutboxEventType = "cart.item_added"
	CartItemRemoved     OutboxEventType = "cart.item_removed"
	CartQuantityUpdated OutboxEventType = "cart.quantity_updated"
	CartCleared         OutboxEventType = "cart.cleared"
	CartCheckedOut      OutboxEventType = "cart.checked_out"
)

// OutboxEvent — запись журнала событий корзины.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ClientID    string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// CartEventPayload — сериализуемое тело события для Kafka.
type CartEventPayload struct {
	EventID    string             `json:"event_id"`
	EventType  OutboxEventType    `json:"event_type"`
	ClientID   string             `json:"client_id"`
	OccurredAt time.Time          `json:"occurred_at"`
	Lines      []CartEventLine    `json:"lines"`
	TotalItems int                `json:"total_items"`
	TotalPrice string             `json:"total_price"`
}

// CartEventLine — строка корзины внутри события.
type CartEventLine struct {
	LineID    string            `json:"line_id"`
	ProductID string            `json:"product_id"`
	Title     string            `json:"title"`
	Slug      string            `json:"slug"`
	Price     string            `json:"price"`
	Quantity  int               `json:"quantity"`
	Variation *domain.Variation `json:"variation,omitempty"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ClientID string
	Payload  []byte
}

// MAPPERS

func NewCartRes(items []domain.LineItem, totals domain.Totals) *CartRes {
	return &CartRes{
		Items:  items,
		Totals: totals,
	}
}

func NewCheckoutRes(checkoutID string, items []domain.LineItem, totals domain.Totals) *CheckoutRes {
	return &CheckoutRes{
		CheckoutID: checkoutID,
		Items:      items,
		Totals:     totals,
	}
}

func NewGetProductsReq(query, token string) *GetProductsReq {
	return &GetProductsReq{
		Query: query,
		Token: token,
	}
}

func NewWriteRawMessageReq(clientID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ClientID: clientID,
		Payload:  payload,
	}
}

// NewOutboxEvent собирает запись журнала с сериализованным телом события.
func NewOutboxEvent(eventID string, eventType OutboxEventType, clientID string, items []domain.LineItem, totals domain.Totals, occurredAt time.Time) (*OutboxEvent, error) {
	payload := CartEventPayload{
		EventID:    eventID,
		EventType:  eventType,
		ClientID:   clientID,
		OccurredAt: occurredAt,
		Lines:      toEventLines(items),
		TotalItems: totals.TotalItems,
		TotalPrice: totals.TotalPrice.String(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ClientID:  clientID,
		Payload:   data,
		Status:    Pending,
		CreatedAt: occurredAt,
	}, nil
}

func toEventLines(items []domain.LineItem) []CartEventLine {
	lines := make([]CartEventLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartEventLine{
			LineID:    item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			Slug:      item.Slug,
			Price:     item.Price.String(),
			Quantity:  item.Quantity,
			Variation: item.Variation,
		})
	}

	return lines
}

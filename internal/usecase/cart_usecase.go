package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/google/uuid"
)

// CartUseCase владеет авторитетными корзинами клиентов в памяти и зеркалит
// каждую мутацию в долговременное хранилище. Операции одной корзины строго
// сериализуются мьютексом записи: два запроса одного клиента выполняются
// в порядке поступления.
type CartUseCase struct {
	store    CartStore
	events   EventRecorder
	checkout CheckoutRecorder
	logger   logger.Logger

	mu    sync.Mutex
	carts map[string]*cartEntry
}

// cartEntry — корзина одного клиента и её мьютекс.
type cartEntry struct {
	mu       sync.Mutex
	cart     *domain.Cart
	hydrated bool
}

func NewCartUC(
	store CartStore,
	events EventRecorder,
	checkout CheckoutRecorder,
	logger logger.Logger,
) *CartUseCase {
	return &CartUseCase{
		store:    store,
		events:   events,
		checkout: checkout,
		logger:   logger,
		carts:    make(map[string]*cartEntry),
	}
}

// GetCart возвращает корзину клиента с пересчитанными итогами.
func (c *CartUseCase) GetCart(ctx context.Context, clientID string) (*CartRes, error) {
	const op = "CartUseCase.GetCart"

	entry, err := c.entry(clientID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	c.hydrate(ctx, entry, clientID)
	return NewCartRes(entry.cart.Items(), entry.cart.Totals()), nil
}

// AddItem добавляет строку в корзину клиента (merge-on-add) и сохраняет снапшот.
func (c *CartUseCase) AddItem(ctx context.Context, req *AddItemReq) (*CartRes, error) {
	const op = "CartUseCase.AddItem"

	if err := c.validateAddItem(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	entry, err := c.entry(req.ClientID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	c.hydrate(ctx, entry, req.ClientID)

	line := entry.cart.Add(*domain.NewLineItem(
		req.ProductID,
		req.Title,
		req.Slug,
		req.Price,
		req.Quantity,
		req.Image,
		req.Variation,
	))

	c.persist(ctx, req.ClientID, entry.cart)
	c.recordEvent(CartItemAdded, req.ClientID, []domain.LineItem{line}, entry.cart.Totals())

	return NewCartRes(entry.cart.Items(), entry.cart.Totals()), nil
}

// RemoveItem удаляет строку по идентификатору. Отсутствующая строка — не ошибка.
func (c *CartUseCase) RemoveItem(ctx context.Context, clientID, lineID string) (*CartRes, error) {
	const op = "CartUseCase.RemoveItem"

	entry, err := c.entry(clientID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	c.hydrate(ctx, entry, clientID)

	if entry.cart.Remove(lineID) {
		c.persist(ctx, clientID, entry.cart)
		c.recordEvent(CartItemRemoved, clientID, nil, entry.cart.Totals())
	}

	return NewCartRes(entry.cart.Items(), entry.cart.Totals()), nil
}

// UpdateQuantity устанавливает количество строки абсолютным значением.
// Количество <= 0 эквивалентно удалению строки.
func (c *CartUseCase) UpdateQuantity(ctx context.Context, clientID, lineID string, quantity int) (*CartRes, error) {
	const op = "CartUseCase.UpdateQuantity"

	entry, err := c.entry(clientID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	c.hydrate(ctx, entry, clientID)

	line, ok := entry.cart.SetQuantity(lineID, quantity)
	c.persist(ctx, clientID, entry.cart)

	if ok {
		c.recordEvent(CartQuantityUpdated, clientID, []domain.LineItem{line}, entry.cart.Totals())
	} else if quantity <= 0 {
		c.recordEvent(CartItemRemoved, clientID, nil, entry.cart.Totals())
	}

	return NewCartRes(entry.cart.Items(), entry.cart.Totals()), nil
}

// ClearCart опустошает корзину клиента.
func (c *CartUseCase) ClearCart(ctx context.Context, clientID string) (*CartRes, error) {
	const op = "CartUseCase.ClearCart"

	entry, err := c.entry(clientID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	c.hydrate(ctx, entry, clientID)

	entry.cart.Clear()
	c.persist(ctx, clientID, entry.cart)
	c.recordEvent(CartCleared, clientID, nil, entry.cart.Totals())

	return NewCartRes(entry.cart.Items(), entry.cart.Totals()), nil
}

// Checkout фиксирует оформление: архивирует снапшот корзины вместе с событием
// cart.checked_out, затем опустошает корзину. Сам заказ создаёт удалённый
// бэкенд, здесь остаётся только журнал для downstream-потребителей.
func (c *CartUseCase) Checkout(ctx context.Context, clientID string) (*CheckoutRes, error) {
	const op = "CartUseCase.Checkout"

	entry, err := c.entry(clientID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	c.hydrate(ctx, entry, clientID)

	if entry.cart.Len() == 0 {
		return nil, e.Wrap(op, e.ErrEmptyCart)
	}

	var (
		checkoutID = uuid.NewString()
		items      = entry.cart.Items()
		totals     = entry.cart.Totals()
		now        = time.Now().UTC()
	)

	if c.checkout != nil {
		event, err := NewOutboxEvent(uuid.NewString(), CartCheckedOut, clientID, items, totals, now)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		snapshot := &CheckoutSnapshot{
			CheckoutID: checkoutID,
			ClientID:   clientID,
			Items:      items,
			TotalItems: totals.TotalItems,
			TotalPrice: totals.TotalPrice,
			CreatedAt:  now,
		}

		// Оформление без записи в журнал не фиксируется: клиент повторит запрос
		if err := c.checkout.RecordCheckout(ctx, snapshot, event); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	entry.cart.ConsumeAll()
	c.persist(ctx, clientID, entry.cart)

	return NewCheckoutRes(checkoutID, items, totals), nil
}

// entry возвращает корзину клиента, создавая запись при первом обращении.
func (c *CartUseCase) entry(clientID string) (*cartEntry, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, e.ErrClientIDRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.carts[clientID]
	if !ok {
		entry = &cartEntry{cart: domain.NewCart(nil)}
		c.carts[clientID] = entry
	}

	return entry, nil
}

// hydrate лениво восстанавливает корзину из хранилища.
// Любая ошибка чтения деградирует до пустой корзины и не доходит до клиента.
func (c *CartUseCase) hydrate(ctx context.Context, entry *cartEntry, clientID string) {
	if entry.hydrated {
		return
	}

	items, err := c.store.Load(ctx, clientID)
	if err != nil {
		c.logger.Warnf("cart store load failed, falling back to empty cart. client_id: %s, error: %v", clientID, err)
		items = nil
	}

	entry.cart = domain.NewCart(items)
	entry.hydrated = true
}

// persist полностью перезаписывает снапшот корзины в хранилище.
// Ошибка записи логируется: локальные мутации корзины не падают.
func (c *CartUseCase) persist(ctx context.Context, clientID string, cart *domain.Cart) {
	if err := c.store.Save(ctx, clientID, cart.Items()); err != nil {
		c.logger.Warnf("cart store save failed. client_id: %s, error: %v", clientID, err)
	}
}

// recordEvent пишет событие корзины в журнал в фоне, best-effort.
func (c *CartUseCase) recordEvent(eventType OutboxEventType, clientID string, lines []domain.LineItem, totals domain.Totals) {
	if c.events == nil {
		return
	}

	event, err := NewOutboxEvent(uuid.NewString(), eventType, clientID, lines, totals, time.Now().UTC())
	if err != nil {
		c.logger.Warnf("failed to build cart event %s: %v", eventType, err)
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.events.RecordEvent(bgCtx, event); err != nil {
			c.logger.Warnf("failed to record cart event %s: %v", eventType, err)
		}
	}()
}

// validateAddItem проверяет корректность входных данных запроса на добавление.
func (c *CartUseCase) validateAddItem(req *AddItemReq) error {
	if strings.TrimSpace(req.ClientID) == "" {
		return e.ErrClientIDRequired
	}

	if strings.TrimSpace(req.ProductID) == "" {
		return e.ErrMissingFields
	}

	if req.Price.IsNegative() {
		return e.ErrInvalidPrice
	}

	return nil
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore — CartStore в памяти для тестов.
type fakeStore struct {
	mu        sync.Mutex
	snapshots map[string][]domain.LineItem
	saves     int
	loadErr   error
	saveErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{snapshots: make(map[string][]domain.LineItem)}
}

func (f *fakeStore) Load(_ context.Context, clientID string) ([]domain.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snapshots[clientID], nil
}

func (f *fakeStore) Save(_ context.Context, clientID string, items []domain.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.snapshots[clientID] = items
	return nil
}

func (f *fakeStore) Delete(_ context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.snapshots, clientID)
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakeEventRecorder struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (f *fakeEventRecorder) RecordEvent(_ context.Context, event *OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

type fakeCheckoutRecorder struct {
	mu        sync.Mutex
	snapshots []*CheckoutSnapshot
	events    []*OutboxEvent
	err       error
}

func (f *fakeCheckoutRecorder) RecordCheckout(_ context.Context, snapshot *CheckoutSnapshot, event *OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.snapshots = append(f.snapshots, snapshot)
	f.events = append(f.events, event)
	return nil
}

func newCartUC(store CartStore) *CartUseCase {
	return NewCartUC(store, nil, nil, logger.NewSlogLogger())
}

func addReq(clientID, productID string, quantity int, price int64) *AddItemReq {
	return &AddItemReq{
		ClientID:  clientID,
		ProductID: productID,
		Title:     "Товар " + productID,
		Slug:      productID,
		Price:     decimal.NewFromInt(price),
		Quantity:  quantity,
	}
}

func TestCartUC_AddItem_MergesAndPersists(t *testing.T) {
	store := newFakeStore()
	uc := newCartUC(store)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, addReq("c1", "P1", 2, 100))
	require.NoError(t, err)

	res, err := uc.AddItem(ctx, addReq("c1", "P1", 3, 100))
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, 5, res.Items[0].Quantity)
	assert.Equal(t, 2, store.saveCount(), "каждая мутация перезаписывает снапшот")
	assert.Len(t, store.snapshots["c1"], 1)
}

func TestCartUC_HydratesFromStore(t *testing.T) {
	store := newFakeStore()
	store.snapshots["c1"] = []domain.LineItem{
		{ID: "l1", ProductID: "P1", Title: "Товар P1", Slug: "p1", Price: decimal.NewFromInt(100), Quantity: 2},
	}

	uc := newCartUC(store)

	res, err := uc.GetCart(context.Background(), "c1")
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "l1", res.Items[0].ID)
	assert.Equal(t, 2, res.Totals.TotalItems)
	assert.True(t, res.Totals.TotalPrice.Equal(decimal.NewFromInt(200)))
}

func TestCartUC_LoadFailureFallsBackToEmptyCart(t *testing.T) {
	store := newFakeStore()
	store.loadErr = fmt.Errorf("blob unreadable")

	uc := newCartUC(store)

	res, err := uc.GetCart(context.Background(), "c1")
	require.NoError(t, err, "ошибка чтения не доходит до клиента")
	assert.Empty(t, res.Items)
}

func TestCartUC_SaveFailureDoesNotFailMutation(t *testing.T) {
	store := newFakeStore()
	store.saveErr = fmt.Errorf("disk full")

	uc := newCartUC(store)

	res, err := uc.AddItem(context.Background(), addReq("c1", "P1", 1, 100))
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestCartUC_RoundTripAcrossInstances(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	first := newCartUC(store)
	added, err := first.AddItem(ctx, addReq("c1", "P1", 2, 100))
	require.NoError(t, err)

	// Новый процесс с тем же хранилищем
	second := newCartUC(store)
	restored, err := second.GetCart(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, added.Items, restored.Items)
}

func TestCartUC_UpdateQuantityZeroRemoves(t *testing.T) {
	store := newFakeStore()
	uc := newCartUC(store)
	ctx := context.Background()

	res, err := uc.AddItem(ctx, addReq("c1", "P1", 2, 100))
	require.NoError(t, err)
	lineID := res.Items[0].ID

	res, err = uc.UpdateQuantity(ctx, "c1", lineID, 0)
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.Empty(t, store.snapshots["c1"])
}

func TestCartUC_RemoveMissingLineIsNoop(t *testing.T) {
	store := newFakeStore()
	uc := newCartUC(store)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, addReq("c1", "P1", 1, 100))
	require.NoError(t, err)

	res, err := uc.RemoveItem(ctx, "c1", "missing")
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestCartUC_ClearCart(t *testing.T) {
	store := newFakeStore()
	uc := newCartUC(store)
	ctx := context.Background()

	_, err := uc.AddItem(ctx, addReq("c1", "P1", 2, 100))
	require.NoError(t, err)

	res, err := uc.ClearCart(ctx, "c1")
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.Totals.TotalItems)
	assert.Empty(t, store.snapshots["c1"])
}

func TestCartUC_RequiresClientID(t *testing.T) {
	uc := newCartUC(newFakeStore())

	_, err := uc.GetCart(context.Background(), "  ")
	assert.Error(t, err)

	_, err = uc.AddItem(context.Background(), addReq("", "P1", 1, 100))
	assert.Error(t, err)
}

func TestCartUC_AddItemValidation(t *testing.T) {
	uc := newCartUC(newFakeStore())
	ctx := context.Background()

	_, err := uc.AddItem(ctx, addReq("c1", "", 1, 100))
	assert.Error(t, err, "product_id обязателен")

	req := addReq("c1", "P1", 1, 100)
	req.Price = decimal.NewFromInt(-1)
	_, err = uc.AddItem(ctx, req)
	assert.Error(t, err, "отрицательная цена отклоняется")
}

func TestCartUC_RecordsEventsInBackground(t *testing.T) {
	store := newFakeStore()
	recorder := &fakeEventRecorder{}
	uc := NewCartUC(store, recorder, nil, logger.NewSlogLogger())
	ctx := context.Background()

	_, err := uc.AddItem(ctx, addReq("c1", "P1", 1, 100))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return recorder.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestCartUC_Checkout(t *testing.T) {
	store := newFakeStore()
	recorder := &fakeCheckoutRecorder{}
	uc := NewCartUC(store, nil, recorder, logger.NewSlogLogger())
	ctx := context.Background()

	_, err := uc.AddItem(ctx, addReq("c1", "P1", 2, 100))
	require.NoError(t, err)

	res, err := uc.Checkout(ctx, "c1")
	require.NoError(t, err)

	assert.NotEmpty(t, res.CheckoutID)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Totals.TotalItems)

	require.Len(t, recorder.snapshots, 1)
	assert.Equal(t, "c1", recorder.snapshots[0].ClientID)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, CartCheckedOut, recorder.events[0].EventType)

	// Корзина опустошена и снапшот перезаписан
	after, err := uc.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Empty(t, store.snapshots["c1"])
}

func TestCartUC_CheckoutEmptyCart(t *testing.T) {
	uc := newCartUC(newFakeStore())

	_, err := uc.Checkout(context.Background(), "c1")
	assert.Error(t, err)
}

func TestCartUC_CheckoutJournalFailureKeepsCart(t *testing.T) {
	store := newFakeStore()
	recorder := &fakeCheckoutRecorder{err: fmt.Errorf("journal unavailable")}
	uc := NewCartUC(store, nil, recorder, logger.NewSlogLogger())
	ctx := context.Background()

	_, err := uc.AddItem(ctx, addReq("c1", "P1", 2, 100))
	require.NoError(t, err)

	_, err = uc.Checkout(ctx, "c1")
	require.Error(t, err)

	res, err := uc.GetCart(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, res.Items, 1, "корзина не опустошается при сбое журнала")
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartUC struct {
	lastAdd      *usecase.AddItemReq
	lastClientID string
	lastLineID   string
	lastQuantity int
	checkoutErr  error
}

func (f *fakeCartUC) cartRes() *usecase.CartRes {
	items := []domain.LineItem{{
		ID:        "l1",
		ProductID: "P1",
		Title:     "Футболка",
		Slug:      "t-shirt",
		Price:     decimal.RequireFromString("599.99"),
		Quantity:  2,
	}}

	return usecase.NewCartRes(items, domain.Totals{
		TotalItems: 2,
		TotalPrice: decimal.RequireFromString("1199.98"),
	})
}

func (f *fakeCartUC) GetCart(ctx context.Context, clientID string) (*usecase.CartRes, error) {
	if clientID == "" {
		return nil, e.ErrClientIDRequired
	}
	f.lastClientID = clientID
	return f.cartRes(), nil
}

func (f *fakeCartUC) AddItem(ctx context.Context, req *usecase.AddItemReq) (*usecase.CartRes, error) {
	if req.ClientID == "" {
		return nil, e.ErrClientIDRequired
	}
	f.lastAdd = req
	return f.cartRes(), nil
}

func (f *fakeCartUC) RemoveItem(ctx context.Context, clientID, lineID string) (*usecase.CartRes, error) {
	f.lastClientID = clientID
	f.lastLineID = lineID
	return f.cartRes(), nil
}

func (f *fakeCartUC) UpdateQuantity(ctx context.Context, clientID, lineID string, quantity int) (*usecase.CartRes, error) {
	f.lastClientID = clientID
	f.lastLineID = lineID
	f.lastQuantity = quantity
	return f.cartRes(), nil
}

func (f *fakeCartUC) ClearCart(ctx context.Context, clientID string) (*usecase.CartRes, error) {
	f.lastClientID = clientID
	return usecase.NewCartRes(nil, domain.Totals{TotalPrice: decimal.Zero}), nil
}

func (f *fakeCartUC) Checkout(ctx context.Context, clientID string) (*usecase.CheckoutRes, error) {
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	res := f.cartRes()
	return usecase.NewCheckoutRes("chk-1", res.Items, res.Totals), nil
}

func newCartTestRouter(uc *fakeCartUC) *chi.Mux {
	router := chi.NewRouter()
	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(clientContext)
		registerCartRoutes(v1, NewCartHandler(uc, logger.NewSlogLogger()))
	})
	return router
}

func doRequest(t *testing.T, router *chi.Mux, method, path, clientID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if clientID != "" {
		req.Header.Set("X-Client-ID", clientID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCartHandler_GetCart(t *testing.T) {
	uc := &fakeCartUC{}
	router := newCartTestRouter(uc)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "c1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", uc.lastClientID)

	var res CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, "599.99", res.Items[0].Price)
	assert.Equal(t, 2, res.TotalItems)
	assert.Equal(t, "1199.98", res.TotalPrice)
}

func TestCartHandler_GetCart_MissingClientID(t *testing.T) {
	router := newCartTestRouter(&fakeCartUC{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", "", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestCartHandler_AddItem(t *testing.T) {
	uc := &fakeCartUC{}
	router := newCartTestRouter(uc)

	body := `{
		"product_id": "P1",
		"title": "Футболка",
		"slug": "t-shirt",
		"price": 599.99,
		"quantity": 2,
		"variation": {"color": "red", "size": "M"}
	}`

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "c1", body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.lastAdd)
	assert.Equal(t, "c1", uc.lastAdd.ClientID)
	assert.Equal(t, "P1", uc.lastAdd.ProductID)
	assert.True(t, uc.lastAdd.Price.Equal(decimal.RequireFromString("599.99")))
	assert.Equal(t, 2, uc.lastAdd.Quantity)
	require.NotNil(t, uc.lastAdd.Variation)
	assert.Equal(t, "red", uc.lastAdd.Variation.Color)
}

func TestCartHandler_AddItem_StringPrice(t *testing.T) {
	uc := &fakeCartUC{}
	router := newCartTestRouter(uc)

	body := `{"product_id": "P1", "title": "a", "slug": "a", "price": "150", "quantity": 1}`

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "c1", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, uc.lastAdd.Price.Equal(decimal.NewFromInt(150)))
}

func TestCartHandler_AddItem_BadBody(t *testing.T) {
	router := newCartTestRouter(&fakeCartUC{})

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{not json`},
		{name: "negative price", body: `{"product_id":"P1","price":-5,"quantity":1}`},
		{name: "missing price", body: `{"product_id":"P1","quantity":1}`},
		{name: "too many decimal places", body: `{"product_id":"P1","price":1.999,"quantity":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/items", "c1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	uc := &fakeCartUC{}
	router := newCartTestRouter(uc)

	rec := doRequest(t, router, http.MethodPatch, "/api/v1/cart/items/l1", "c1", `{"quantity": 5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "l1", uc.lastLineID)
	assert.Equal(t, 5, uc.lastQuantity)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	uc := &fakeCartUC{}
	router := newCartTestRouter(uc)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/l1", "c1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "l1", uc.lastLineID)
}

func TestCartHandler_ClearCart(t *testing.T) {
	uc := &fakeCartUC{}
	router := newCartTestRouter(uc)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart", "c1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var res CartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Items)
	assert.Equal(t, "0", res.TotalPrice)
}

func TestCartHandler_Checkout(t *testing.T) {
	uc := &fakeCartUC{}
	router := newCartTestRouter(uc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/checkout", "c1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var res CheckoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "chk-1", res.CheckoutID)
	assert.Equal(t, "1199.98", res.TotalPrice)
}

func TestCartHandler_Checkout_EmptyCart(t *testing.T) {
	uc := &fakeCartUC{checkoutErr: e.ErrEmptyCart}
	router := newCartTestRouter(uc)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/cart/checkout", "c1", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, e.ErrEmptyCart.Error(), res.Message)
}

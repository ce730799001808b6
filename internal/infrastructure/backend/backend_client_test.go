package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bazaarfly/go-storefront/internal/cfg"
	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&cfg.BackendCfg{
		BaseURL: server.URL,
		Token:   "fallback-token",
		Timeout: 5 * time.Second,
	}, logger.NewSlogLogger())
}

func TestClient_ListProducts_BareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"title":"Футболка","slug":"t-shirt","price":"599.99","image":null}]`))
	})

	products, err := client.ListProducts(context.Background(), usecase.NewGetProductsReq("", "user-token"))

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "1", products[0].ID)
	assert.Equal(t, "599.99", products[0].Price)
	assert.Nil(t, products[0].Image)
}

func TestClient_ListProducts_PaginatedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "search=mug", r.URL.RawQuery)

		w.Write([]byte(`{"count":1,"results":[{"id":2,"title":"Кружка","slug":"mug","price":150}]}`))
	})

	products, err := client.ListProducts(context.Background(), usecase.NewGetProductsReq("search=mug", ""))

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "mug", products[0].Slug)
	assert.Equal(t, "150", products[0].Price)
}

func TestClient_FallbackToConfigToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fallback-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})

	_, err := client.ListProducts(context.Background(), usecase.NewGetProductsReq("", ""))

	require.NoError(t, err)
}

func TestClient_GetProductBySlug(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/t-shirt/", r.URL.Path)
		w.Write([]byte(`{"id":1,"title":"Футболка","slug":"t-shirt","price":"599.99","category_name":"Одежда"}`))
	})

	product, err := client.GetProductBySlug(context.Background(), "t-shirt", "")

	require.NoError(t, err)
	assert.Equal(t, "Футболка", product.Title)
	assert.Equal(t, "Одежда", product.CategoryName)
}

func TestClient_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Not found."}`))
	})

	_, err := client.GetProductBySlug(context.Background(), "missing", "")

	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestClient_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"invalid token"}`, want: "invalid token"},
		{name: "detail field", body: `{"detail":"authentication required"}`, want: "authentication required"},
		{name: "no envelope", body: `<html>`, want: "status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			})

			_, err := client.ListCategories(context.Background(), "")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClient_ListCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/categories/", r.URL.Path)
		w.Write([]byte(`[{"id":7,"name":"Одежда","slug":"clothing"}]`))
	})

	categories, err := client.ListCategories(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "7", categories[0].ID)
	assert.Equal(t, "clothing", categories[0].Slug)
}

package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bazaarfly/go-storefront/internal/cfg"
	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/jimlawless/whereami"
)

// Client — HTTP-клиент удалённого commerce-бэкенда, владеющего каталогом.
// Токен запроса имеет приоритет над токеном из конфигурации.
type Client struct {
	httpClient *http.Client
	cfg        *cfg.BackendCfg
	logger     logger.Logger
}

func NewClient(cfg *cfg.BackendCfg, logger logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// productModel — карточка товара в ответе бэкенда.
// id и price приходят то числом, то строкой в зависимости от ручки.
type productModel struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Price        json.Number `json:"price"`
	Image        *string     `json:"image"`
	CategoryName string      `json:"category_name"`
	Description  string      `json:"description"`
}

type categoryModel struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Slug string      `json:"slug"`
}

// listEnvelope — пагинированный ответ списочных ручек.
type listEnvelope struct {
	Results json.RawMessage `json:"results"`
}

// errorEnvelope — тело ошибки бэкенда.
type errorEnvelope struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (c *Client) ListProducts(ctx context.Context, req *usecase.GetProductsReq) ([]usecase.ProductInfo, error) {
	const op = "backend.Client.ListProducts"

	endpoint := "/api/v1/products/"
	if req.Query != "" {
		endpoint += "?" + strings.TrimPrefix(req.Query, "?")
	}

	body, err := c.doRequest(ctx, http.MethodGet, endpoint, req.Token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	models, err := decodeList[productModel](body)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	products := make([]usecase.ProductInfo, 0, len(models))
	for _, model := range models {
		products = append(products, toProductInfo(model))
	}

	return products, nil
}

func (c *Client) GetProductBySlug(ctx context.Context, slug, token string) (*usecase.ProductInfo, error) {
	const op = "backend.Client.GetProductBySlug"

	endpoint := "/api/v1/products/" + url.PathEscape(slug) + "/"

	body, err := c.doRequest(ctx, http.MethodGet, endpoint, token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var model productModel
	if err := json.Unmarshal(body, &model); err != nil {
		return nil, e.Wrap(op, err)
	}

	product := toProductInfo(model)
	return &product, nil
}

func (c *Client) ListCategories(ctx context.Context, token string) ([]usecase.CategoryInfo, error) {
	const op = "backend.Client.ListCategories"

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/categories/", token)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	models, err := decodeList[categoryModel](body)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	categories := make([]usecase.CategoryInfo, 0, len(models))
	for _, model := range models {
		categories = append(categories, usecase.CategoryInfo{
			ID:   model.ID.String(),
			Name: model.Name,
			Slug: model.Slug,
		})
	}

	return categories, nil
}

// doRequest выполняет запрос и возвращает тело успешного ответа.
// Ошибки бэкенда разворачиваются из конверта {message|detail}.
func (c *Client) doRequest(ctx context.Context, method, endpoint, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+endpoint, nil)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	req.Header.Set("Content-Type", "application/json")
	if t := c.resolveToken(token); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.backendError(resp.StatusCode, endpoint, body)
	}

	return body, nil
}

func (c *Client) backendError(status int, endpoint string, body []byte) error {
	if status == http.StatusNotFound {
		return e.ErrNotFound
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return fmt.Errorf("backend: %s", envelope.Message)
		}
		if envelope.Detail != "" {
			return fmt.Errorf("backend: %s", envelope.Detail)
		}
	}

	c.logger.Warnf("Backend request failed: endpoint: %s, status: %d", endpoint, status)
	return fmt.Errorf("backend: request failed with status %d", status)
}

func (c *Client) resolveToken(token string) string {
	if token != "" {
		return token
	}

	return c.cfg.Token
}

// decodeList принимает как пагинированный конверт {results: [...]}, так и голый массив.
func decodeList[T any](body []byte) ([]T, error) {
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Results != nil {
		body = envelope.Results
	}

	var models []T
	if err := json.Unmarshal(body, &models); err != nil {
		return nil, err
	}

	return models, nil
}

func toProductInfo(model productModel) usecase.ProductInfo {
	return usecase.ProductInfo{
		ID:           model.ID.String(),
		Title:        model.Title,
		Slug:         model.Slug,
		Price:        model.Price.String(),
		Image:        model.Image,
		CategoryName: model.CategoryName,
		Description:  model.Description,
	}
}

package http

import (
	"net/http"

	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// getProducts
//
//	@Summary		Список товаров каталога
//	@Description	Проксирует запрос удалённому каталогу, query-параметры передаются как есть
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}		usecase.ProductInfo
//	@Failure		500	{object}	ErrorResponse
//	@Router			/products [get]
func (h *CatalogHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	req := usecase.NewGetProductsReq(r.URL.RawQuery, tokenFromCtx(r.Context()))

	products, err := h.catalogUsecase.GetProducts(r.Context(), req)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, products)
}

// getProductBySlug
//
//	@Summary		Карточка товара
//	@Tags			catalog
//	@Produce		json
//	@Param			slug	path		string	true	"Слаг товара"
//	@Success		200		{object}	usecase.ProductInfo
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{slug} [get]
func (h *CatalogHandler) getProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalogUsecase.GetProductBySlug(r.Context(), slug, tokenFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, product)
}

// getCategories
//
//	@Summary		Список категорий каталога
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}		usecase.CategoryInfo
//	@Failure		500	{object}	ErrorResponse
//	@Router			/categories [get]
func (h *CatalogHandler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUsecase.GetCategories(r.Context(), tokenFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, categories)
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

// addItemBody — тело запроса на добавление строки.
type addItemBody struct {
	ProductID string            `json:"product_id"`
	Title     string            `json:"title"`
	Slug      string            `json:"slug"`
	Price     json.Number       `json:"price"`
	Quantity  int               `json:"quantity"`
	Image     *string           `json:"image"`
	Variation *domain.Variation `json:"variation"`
}

// updateQuantityBody — тело запроса на изменение количества.
type updateQuantityBody struct {
	Quantity int `json:"quantity"`
}

// getCart
//
//	@Summary		Текущая корзина
//	@Description	Возвращает корзину клиента с пересчитанными итогами
//	@Tags			cart
//	@Produce		json
//	@Param			X-Client-ID	header		string	true	"Идентификатор клиента"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/cart [get]
func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	res, err := h.cartUsecase.GetCart(r.Context(), clientIDFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(res))
}

// addItem
//
//	@Summary		Добавление товара в корзину
//	@Description	Добавляет строку или сливает её с существующей по товару и вариации
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Client-ID	header		string		true	"Идентификатор клиента"
//	@Param			body		body		addItemBody	true	"Строка корзины"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/cart/items [post]
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var body addItemBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrInvalidBody.Error(), err.Error())
		WriteError(w, e.ErrInvalidBody)
		return
	}

	price, err := parsePrice(body.Price.String())
	if err != nil {
		h.logger.Warnf("%d %s: price: %s", http.StatusBadRequest, err.Error(), body.Price.String())
		WriteError(w, err)
		return
	}

	req := &usecase.AddItemReq{
		ClientID:  clientIDFromCtx(r.Context()),
		ProductID: body.ProductID,
		Title:     body.Title,
		Slug:      body.Slug,
		Price:     price,
		Quantity:  body.Quantity,
		Image:     body.Image,
		Variation: body.Variation,
	}

	res, err := h.cartUsecase.AddItem(r.Context(), req)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(res))
}

// updateQuantity
//
//	@Summary		Изменение количества
//	@Description	Устанавливает абсолютное количество строки, ноль и меньше удаляет строку
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Client-ID	header		string				true	"Идентификатор клиента"
//	@Param			lineID		path		string				true	"Идентификатор строки"
//	@Param			body		body		updateQuantityBody	true	"Новое количество"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/cart/items/{lineID} [patch]
func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var body updateQuantityBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrInvalidBody.Error(), err.Error())
		WriteError(w, e.ErrInvalidBody)
		return
	}

	lineID := chi.URLParam(r, "lineID")

	res, err := h.cartUsecase.UpdateQuantity(r.Context(), clientIDFromCtx(r.Context()), lineID, body.Quantity)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(res))
}

// removeItem
//
//	@Summary		Удаление строки из корзины
//	@Description	Удаляет строку, отсутствующая строка — no-op
//	@Tags			cart
//	@Produce		json
//	@Param			X-Client-ID	header		string	true	"Идентификатор клиента"
//	@Param			lineID		path		string	true	"Идентификатор строки"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/cart/items/{lineID} [delete]
func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	res, err := h.cartUsecase.RemoveItem(r.Context(), clientIDFromCtx(r.Context()), lineID)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(res))
}

// clearCart
//
//	@Summary		Очистка корзины
//	@Tags			cart
//	@Produce		json
//	@Param			X-Client-ID	header		string	true	"Идентификатор клиента"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/cart [delete]
func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	res, err := h.cartUsecase.ClearCart(r.Context(), clientIDFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(res))
}

// checkout
//
//	@Summary		Оформление корзины
//	@Description	Архивирует снапшот корзины, публикует событие и опустошает корзину
//	@Tags			cart
//	@Produce		json
//	@Param			X-Client-ID	header		string	true	"Идентификатор клиента"
//	@Success		200			{object}	CheckoutResponse
//	@Failure		400			{object}	ErrorResponse	"Пустая корзина"
//	@Router			/cart/checkout [post]
func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	res, err := h.cartUsecase.Checkout(r.Context(), clientIDFromCtx(r.Context()))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCheckoutResponse(res))
}

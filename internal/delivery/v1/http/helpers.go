package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bazaarfly/go-storefront/internal/domain"
	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrClientIDRequired):
		return http.StatusBadRequest, e.ErrClientIDRequired.Error()
	case errors.Is(err, e.ErrEmptyCart):
		return http.StatusBadRequest, e.ErrEmptyCart.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidBody):
		return http.StatusBadRequest, e.ErrInvalidBody.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parsePrice разбирает цену из тела запроса.
// Допускает не более двух знаков после запятой, отвергает отрицательные значения.
func parsePrice(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, e.ErrMissingFields
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return decimal.Zero, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return decimal.Zero, e.ErrPricePrecision
	}

	return d, nil
}

// LineItemResponse — строка корзины в ответах API.
type LineItemResponse struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Title     string            `json:"title"`
	Slug      string            `json:"slug"`
	Price     string            `json:"price"`
	Quantity  int               `json:"quantity"`
	Image     *string           `json:"image,omitempty"`
	Variation *domain.Variation `json:"variation,omitempty"`
}

// CartResponse — состояние корзины с пересчитанными итогами.
type CartResponse struct {
	Items      []LineItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice string             `json:"total_price"`
}

// CheckoutResponse — результат оформления корзины.
type CheckoutResponse struct {
	CheckoutID string             `json:"checkout_id"`
	Items      []LineItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice string             `json:"total_price"`
}

func toLineItemResponses(items []domain.LineItem) []LineItemResponse {
	lines := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			Slug:      item.Slug,
			Price:     item.Price.String(),
			Quantity:  item.Quantity,
			Image:     item.Image,
			Variation: item.Variation,
		})
	}

	return lines
}

func toCartResponse(res *usecase.CartRes) *CartResponse {
	return &CartResponse{
		Items:      toLineItemResponses(res.Items),
		TotalItems: res.Totals.TotalItems,
		TotalPrice: res.Totals.TotalPrice.String(),
	}
}

func toCheckoutResponse(res *usecase.CheckoutRes) *CheckoutResponse {
	return &CheckoutResponse{
		CheckoutID: res.CheckoutID,
		Items:      toLineItemResponses(res.Items),
		TotalItems: res.Totals.TotalItems,
		TotalPrice: res.Totals.TotalPrice.String(),
	}
}

package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// Внутренние ошибки кэша каталога
	ErrCacheMiss = fmt.Errorf("cache miss")

	// Ошибки корзины
	ErrEmptyCart        = fmt.Errorf("cart is empty")
	ErrClientIDRequired = fmt.Errorf("client id is required")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrMissingFields    = fmt.Errorf("missing required fields")
	ErrInvalidPrice     = fmt.Errorf("invalid price")
	ErrPricePrecision   = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidBody      = fmt.Errorf("invalid request body")

	// 404 Not Found
	ErrNotFound = fmt.Errorf("not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

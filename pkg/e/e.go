package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidID            = fmt.Errorf("invalid id")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrEmailRequired        = fmt.Errorf("email is required")
	ErrPasswordRequired     = fmt.Errorf("password is required")
	ErrNoImage              = fmt.Errorf("no image provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")

	// 401 Unauthorized — единая ошибка для всех сбоев аутентификации
	ErrUnauthorized = fmt.Errorf("could not validate credentials")

	// 404 Not Found
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrOrderNotFound   = fmt.Errorf("order not found")

	// 409 Conflict
	ErrEmailTaken        = fmt.Errorf("email already registered")
	ErrProductReferenced = fmt.Errorf("product is referenced by existing orders")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки компиляции запросов
	ErrUnknownEntityKind = fmt.Errorf("unknown entity kind")

	// 400 Bad Request
	ErrInvalidAddressFields = fmt.Errorf("address line and city are required")
	ErrInvalidProfileFields = fmt.Errorf("no updatable profile fields provided")
	ErrPasswordTooShort     = fmt.Errorf("password must be at least 8 characters")
	ErrWrongPassword        = fmt.Errorf("current password is incorrect")
	ErrUnknownAction        = fmt.Errorf("unknown action")
	ErrMalformedBody        = fmt.Errorf("malformed request body")

	// 401 Unauthorized
	ErrUnauthorized = fmt.Errorf("authentication required")

	// 404 Not Found
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrAddressNotFound = fmt.Errorf("address not found")

	// 405 Method Not Allowed
	ErrMethodNotAllowed = fmt.Errorf("method not allowed for this action")

	// 409 Conflict. Защитная проверка инварианта адресной книги,
	// при корректных транзакциях недостижима.
	ErrDefaultConflict = fmt.Errorf("default address invariant violated")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

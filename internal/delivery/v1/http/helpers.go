package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropx-tech/marketplace-backend/pkg/e"
)

// Envelope — единый формат ответа API.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewEnvelope(success bool, message string, data interface{}) *Envelope {
	return &Envelope{
		Success: success,
		Message: message,
		Data:    data,
	}
}

// ToHTTPResponse переводит ошибку ядра в HTTP-статус и сообщение.
// Ошибки хранилища наружу не раскрываются.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusUnauthorized, e.ErrUnauthorized.Error()
	case errors.Is(err, e.ErrUserNotFound):
		return http.StatusNotFound, e.ErrUserNotFound.Error()
	case errors.Is(err, e.ErrAddressNotFound):
		return http.StatusNotFound, e.ErrAddressNotFound.Error()
	case errors.Is(err, e.ErrInvalidAddressFields):
		return http.StatusBadRequest, e.ErrInvalidAddressFields.Error()
	case errors.Is(err, e.ErrInvalidProfileFields):
		return http.StatusBadRequest, e.ErrInvalidProfileFields.Error()
	case errors.Is(err, e.ErrPasswordTooShort):
		return http.StatusBadRequest, e.ErrPasswordTooShort.Error()
	case errors.Is(err, e.ErrWrongPassword):
		return http.StatusBadRequest, e.ErrWrongPassword.Error()
	case errors.Is(err, e.ErrUnknownAction):
		return http.StatusBadRequest, e.ErrUnknownAction.Error()
	case errors.Is(err, e.ErrMalformedBody):
		return http.StatusBadRequest, e.ErrMalformedBody.Error()
	case errors.Is(err, e.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, e.ErrMethodNotAllowed.Error()
	case errors.Is(err, e.ErrDefaultConflict):
		return http.StatusConflict, e.ErrDefaultConflict.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewEnvelope(false, msg, nil))
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(NewEnvelope(true, message, data))
}

// decodeBody разбирает JSON-тело запроса в dst. Пустое или битое тело —
// ошибка валидации, а не 500.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.Wrap("failed to decode request body", e.ErrMalformedBody)
	}
	return nil
}

package sheets

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy of persistence calls.
type ErrorCategory string

const (
	// ErrorTransport covers network failures and non-2xx replies.
	ErrorTransport ErrorCategory = "transport"

	// ErrorApplication is a well-formed reply with success=false.
	ErrorApplication ErrorCategory = "application"

	// ErrorMalformed is a 2xx reply that is not the expected JSON shape.
	ErrorMalformed ErrorCategory = "malformed_response"
)

// User-facing messages.
const (
	MsgUnknownServerError = "Ocurrió un error desconocido en el servidor."
	MsgInvalidResponse    = "Se recibió una respuesta inválida del servidor. Verifique el formato de los datos en Google Apps Script."
	MsgUnexpectedFormat   = "Se recibió un formato de datos inesperado del servidor."
)

// APIError wraps persistence failures with their category.
type APIError struct {
	Category   ErrorCategory
	Action     Action
	Message    string
	StatusCode int
	Underlying error
}

func (e *APIError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("sheets %s [%s]: %s: %v", e.Action, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("sheets %s [%s]: %s", e.Action, e.Category, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Underlying
}

func newAPIError(category ErrorCategory, action Action, message string, underlying error) *APIError {
	return &APIError{Category: category, Action: action, Message: message, Underlying: underlying}
}

// GetCategory extracts the category from err. Errors that did not come from
// the client report an empty category.
func GetCategory(err error) ErrorCategory {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Category
	}
	return ""
}

func IsTransport(err error) bool   { return GetCategory(err) == ErrorTransport }
func IsApplication(err error) bool { return GetCategory(err) == ErrorApplication }
func IsMalformed(err error) bool   { return GetCategory(err) == ErrorMalformed }

// UserMessage renders err the way operators should read it.
func UserMessage(err error) string {
	var ae *APIError
	if !errors.As(err, &ae) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	switch ae.Category {
	case ErrorTransport:
		if ae.StatusCode != 0 {
			return ae.Message
		}
		return "Error de Conexión: " + ae.Message
	case ErrorApplication:
		if ae.Message == "" {
			return MsgUnknownServerError
		}
		return ae.Message
	default:
		return ae.Message
	}
}

package utils

import (
	"log"
	"net/http"

	"studyhub/backend/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RequestError is an error the client caused and should see verbatim.
type RequestError struct {
	Code    int
	Message string
}

func NewRequestError(code int, message string) *RequestError {
	return &RequestError{Code: code, Message: message}
}

func (e *RequestError) Error() string {
	return e.Message
}

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrorHandler maps errors returned by handlers to the JSON error envelope.
// Server errors are logged, client errors are not.
func ErrorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		switch origErr := errors.Cause(err).(type) {
		case *RequestError:
			return Error(c, origErr.Code, origErr)
		case *fiber.Error:
			return Error(c, origErr.Code, origErr)
		case validator.ValidationErrors:
			return ValidationFailed(c, "Invalid request", validation.Fields(origErr))
		case *ValidationError:
			var details map[string]string
			if len(origErr.Fields) > 0 {
				details = make(map[string]string, len(origErr.Fields))
				for _, f := range origErr.Fields {
					details[f.Field] = f.Error
				}
			}
			return ValidationFailed(c, origErr.Message, details)
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound(c, "Record not found")
		}

		logger.Printf("%s %s: %+v", c.Method(), c.Path(), err)
		return Error(c, fiber.StatusInternalServerError, errors.New(http.StatusText(http.StatusInternalServerError)))
	}
}

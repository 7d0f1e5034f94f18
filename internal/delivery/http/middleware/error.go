package middleware

import (
	"errors"

	"offerless/internal/pkg/logger"
	"offerless/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type AppError struct {
	StatusCode int
	Kind       response.Kind
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Kind: response.KindForStatus(statusCode), Message: message, Data: data, Cause: cause}
}

func Unauthorized(cause error) *AppError {
	return NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, cause)
}

func Malformed(cause error) *AppError {
	return NewAppError(fiber.StatusBadRequest, response.MessageMalformedRequest, nil, cause)
}

func NotFound(message string, cause error) *AppError {
	return NewAppError(fiber.StatusNotFound, message, nil, cause)
}

func Validation(message string, details any) *AppError {
	return &AppError{
		StatusCode: fiber.StatusBadRequest,
		Kind:       response.KindValidationFailed,
		Message:    message,
		Data:       details,
	}
}

func Internal(cause error) *AppError {
	return NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, cause)
}

type ErrorMiddleware struct {
	logger logrus.FieldLogger
}

func NewErrorMiddleware(log logrus.FieldLogger) *ErrorMiddleware {
	if log == nil {
		log = logger.Discard()
	}
	return &ErrorMiddleware{logger: log}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.WithFields(logrus.Fields{
					"rid":    RequestID(c),
					"method": c.Method(),
					"path":   c.Path(),
				}).Errorf("panic recovered: %v", r)
				err = response.Error(c, fiber.StatusInternalServerError, response.KindInternal, "", nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, kind, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError {
			m.logger.WithFields(logrus.Fields{
				"rid":    RequestID(c),
				"method": c.Method(),
				"path":   c.Path(),
			}).WithError(err).Error("request failed")
		}
		return response.Error(c, status, kind, msg, data)
	}
}

// normalizeError maps any handler error to the public error body. 5xx never
// leaks the underlying message.
func normalizeError(err error) (int, response.Kind, string, any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.KindInternal, response.MessageInternalServerError, nil
		}

		kind := appErr.Kind
		if kind == "" {
			kind = response.KindForStatus(status)
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(kind)
		}
		return status, kind, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.KindInternal, response.MessageInternalServerError, nil
		}

		kind := response.KindForStatus(status)
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(kind)
		}
		return status, kind, msg, nil
	}

	return fiber.StatusInternalServerError, response.KindInternal, response.MessageInternalServerError, nil
}

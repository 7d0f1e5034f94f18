package response

import "github.com/gofiber/fiber/v3"

// Kind classifies an error body so clients can branch without parsing the
// message.
type Kind string

const (
	KindUnauthenticated  Kind = "unauthenticated"
	KindMalformedRequest Kind = "malformed_request"
	KindValidationFailed Kind = "validation_failed"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindRateLimited      Kind = "rate_limited"
	KindInternal         Kind = "internal"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Kind    Kind   `json:"kind"`
	Details any    `json:"details,omitempty"`
}

const (
	MessageUnauthorized        = "Unauthorized"
	MessageMalformedRequest    = "Malformed request body"
	MessageNotFound            = "Not found"
	MessageConflict            = "Conflict"
	MessageTooManyRequests     = "Too many requests"
	MessageInternalServerError = "Internal server error"
)

// Success writes data as the raw JSON body.
func Success(c fiber.Ctx, status int, data any) error {
	return c.Status(normalizeStatus(status)).JSON(data)
}

func Error(c fiber.Ctx, status int, kind Kind, message string, details any) error {
	st := normalizeStatus(status)
	if kind == "" {
		kind = KindForStatus(st)
	}
	if message == "" {
		message = DefaultMessage(kind)
	}
	return c.Status(st).JSON(ErrorBody{Error: message, Kind: kind, Details: details})
}

func KindForStatus(status int) Kind {
	switch status {
	case fiber.StatusUnauthorized:
		return KindUnauthenticated
	case fiber.StatusBadRequest:
		return KindMalformedRequest
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	case fiber.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}

func DefaultMessage(kind Kind) string {
	switch kind {
	case KindUnauthenticated:
		return MessageUnauthorized
	case KindMalformedRequest:
		return MessageMalformedRequest
	case KindValidationFailed:
		return "Validation error"
	case KindNotFound:
		return MessageNotFound
	case KindConflict:
		return MessageConflict
	case KindRateLimited:
		return MessageTooManyRequests
	default:
		return MessageInternalServerError
	}
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

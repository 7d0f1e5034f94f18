package middleware

import (
	"context"
	"strings"

	"offerless/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Session, error)
}

type AuthMiddleware struct {
	auth   Authenticator
	cookie string
}

func NewAuthMiddleware(a Authenticator, sessionCookie string) *AuthMiddleware {
	return &AuthMiddleware{auth: a, cookie: sessionCookie}
}

// Middleware rejects the request with 401 before any handler (and so before
// any body parsing) unless a valid session token is presented.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := SessionToken(c, m.cookie)
		if !ok || m.auth == nil {
			return Unauthorized(nil)
		}

		sess, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			return Unauthorized(err)
		}

		c.Locals(CtxUserIDKey, sess.UserID)
		c.Locals(CtxEmailKey, sess.Email)

		return c.Next()
	}
}

// SessionToken returns the bearer token, falling back to the session cookie.
func SessionToken(c fiber.Ctx, cookie string) (string, bool) {
	if token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization)); ok {
		return token, true
	}
	if cookie == "" {
		return "", false
	}
	token := strings.TrimSpace(c.Cookies(cookie))
	return token, token != ""
}

func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

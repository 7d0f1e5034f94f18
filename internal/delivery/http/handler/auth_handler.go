package handler

import (
	"context"

	"offerless/internal/delivery/http/dto"
	"offerless/internal/delivery/http/middleware"
	"offerless/internal/pkg/logger"
	"offerless/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type SessionRevoker interface {
	SignOut(ctx context.Context, token string) error
}

type AuthHandler struct {
	sessions SessionRevoker
	cookie   string
	logger   logrus.FieldLogger
}

func NewAuthHandler(sessions SessionRevoker, sessionCookie string, log logrus.FieldLogger) *AuthHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &AuthHandler{sessions: sessions, cookie: sessionCookie, logger: log}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/signout", h.SignOut)
}

// SignOut always succeeds. A presented token is revoked when possible; any
// failure to do so is only logged.
func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	if token, ok := middleware.SessionToken(c, h.cookie); ok && h.sessions != nil {
		if err := h.sessions.SignOut(c.Context(), token); err != nil {
			h.logger.WithField("rid", middleware.RequestID(c)).WithError(err).Warn("sign-out revocation failed")
		}
	}
	if h.cookie != "" {
		c.ClearCookie(h.cookie)
	}
	return response.Success(c, fiber.StatusOK, dto.SuccessResponse{Success: true})
}

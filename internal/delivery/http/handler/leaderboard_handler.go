package handler

import (
	"context"

	"offerless/internal/delivery/http/dto"
	"offerless/internal/delivery/http/middleware"
	"offerless/internal/pkg/response"
	lbuc "offerless/internal/usecase/leaderboard"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type LeaderboardReader interface {
	Standings(ctx context.Context, viewer uuid.UUID) ([]lbuc.Row, error)
}

type LeaderboardHandler struct {
	uc LeaderboardReader
}

func NewLeaderboardHandler(uc LeaderboardReader) *LeaderboardHandler {
	return &LeaderboardHandler{uc: uc}
}

func (h *LeaderboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/leaderboard", h.List)
}

func (h *LeaderboardHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	rows, err := h.uc.Standings(c.Context(), userID)
	if err != nil {
		return middleware.Internal(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewLeaderboardResponse(rows))
}

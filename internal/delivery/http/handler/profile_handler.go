package handler

import (
	"errors"

	"offerless/internal/delivery/http/dto"
	"offerless/internal/delivery/http/middleware"
	"offerless/internal/domain/profile"
	"offerless/internal/pkg/response"
	"offerless/internal/pkg/validation"
	profileuc "offerless/internal/usecase/profile"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc profileuc.Usecase
}

func NewProfileHandler(uc profileuc.Usecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router, write fiber.Handler) {
	if r == nil {
		return
	}
	if write == nil {
		write = passThrough
	}

	r.Get("/me/profile", h.GetMe)
	r.Patch("/me/profile", write, h.UpdateMe)
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	p, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return profileError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	var req dto.ProfilePayload
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	p, err := h.uc.Update(c.Context(), userID, profileuc.UpdateInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return profileError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func profileError(err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return middleware.Validation(verr.Error(), verr.Fields)
	case errors.Is(err, profileuc.ErrEmptyUpdate):
		return middleware.Validation("Validation error: no fields to update", nil)
	case errors.Is(err, profile.ErrNotFound):
		return middleware.NotFound("Profile not found", err)
	case errors.Is(err, profile.ErrUsernameTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Username already taken", nil, err)
	default:
		return middleware.Internal(err)
	}
}

package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"offerless/internal/delivery/http/dto"
	"offerless/internal/delivery/http/middleware"
	"offerless/internal/domain/application"
	"offerless/internal/pkg/response"
	"offerless/internal/pkg/validation"
	appuc "offerless/internal/usecase/application"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	uc appuc.Usecase
}

func NewApplicationHandler(uc appuc.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

// RegisterRoutes mounts the collection under r. write runs before every
// mutating route.
func (h *ApplicationHandler) RegisterRoutes(r fiber.Router, write fiber.Handler) {
	if r == nil {
		return
	}
	if write == nil {
		write = passThrough
	}

	grp := r.Group("/applications")
	grp.Get("/", h.List)
	grp.Post("/", write, h.Create)
	grp.Get("/export", h.Export)
	grp.Post("/import", write, h.Import)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id", write, h.Update)
	grp.Delete("/:id", write, h.Delete)
}

func (h *ApplicationHandler) RegisterStatsRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/me/stats", h.Stats)
}

func (h *ApplicationHandler) List(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	page, err := h.uc.List(c.Context(), userID, appuc.ListParams{
		Q:            c.Query("q"),
		Location:     c.Query("location"),
		LocationKind: c.Query("locationKind"),
		Status:       c.Query("status"),
		From:         c.Query("from"),
		To:           c.Query("to"),
		SortBy:       c.Query("sortBy"),
		SortOrder:    c.Query("sortOrder"),
		Page:         c.Query("page"),
		PageSize:     c.Query("pageSize"),
	})
	if err != nil {
		return applicationError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewApplicationListResponse(page))
}

func (h *ApplicationHandler) Create(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	var req dto.ApplicationPayload
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	created, err := h.uc.Create(c.Context(), userID, req.ToInput())
	if err != nil {
		return applicationError(err)
	}
	return response.Success(c, fiber.StatusCreated, dto.NewApplicationResponse(created))
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	a, err := h.uc.Get(c.Context(), userID, id)
	if err != nil {
		return applicationError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewApplicationResponse(a))
}

func (h *ApplicationHandler) Update(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.ApplicationPayload
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	updated, err := h.uc.Update(c.Context(), userID, id, req.ToPatch())
	if err != nil {
		return applicationError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewApplicationResponse(updated))
}

func (h *ApplicationHandler) Delete(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return applicationError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *ApplicationHandler) Stats(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	st, err := h.uc.Stats(c.Context(), userID)
	if err != nil {
		return applicationError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewStatsResponse(st))
}

func (h *ApplicationHandler) Export(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	apps, err := h.uc.Export(c.Context(), userID)
	if err != nil {
		return applicationError(err)
	}

	var buf bytes.Buffer
	if err := appuc.WriteCSV(&buf, apps); err != nil {
		return middleware.Internal(err)
	}

	filename := "applications-" + time.Now().UTC().Format(application.DateLayout) + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// Import accepts either a raw CSV body or a multipart upload in the "file"
// field.
func (h *ApplicationHandler) Import(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.Unauthorized(nil)
	}

	var src io.Reader = bytes.NewReader(c.Body())
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return middleware.Malformed(err)
		}
		f, err := fh.Open()
		if err != nil {
			return middleware.Malformed(err)
		}
		defer f.Close()
		src = f
	}

	rows, err := appuc.ParseCSV(src)
	if err != nil {
		return applicationError(err)
	}

	n, err := h.uc.Import(c.Context(), userID, rows)
	if err != nil {
		return applicationError(err)
	}
	return response.Success(c, fiber.StatusCreated, dto.ImportResponse{Imported: n})
}

func applicationError(err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return middleware.Validation(verr.Error(), verr.Fields)
	case errors.Is(err, application.ErrNotFound):
		return middleware.NotFound("Application not found", err)
	case errors.Is(err, appuc.ErrEmptyPatch):
		return middleware.Validation("Validation error: no fields to update", nil)
	case errors.Is(err, appuc.ErrEmptyImport),
		errors.Is(err, appuc.ErrTooManyRows),
		errors.Is(err, appuc.ErrInvalidCSV):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	default:
		return middleware.Internal(err)
	}
}

// decodeBody reads a JSON body regardless of the declared content type.
// Numeric fields that fail to parse are reported as validation errors.
func decodeBody(c fiber.Ctx, out any) error {
	if err := json.Unmarshal(c.Body(), out); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return middleware.Validation(verr.Error(), verr.Fields)
		}
		return middleware.Malformed(err)
	}
	return nil
}

// pathID treats an unparsable id like an unknown one.
func pathID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NotFound("Application not found", nil)
	}
	return id, nil
}

func passThrough(c fiber.Ctx) error {
	return c.Next()
}

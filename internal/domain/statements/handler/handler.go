// Package handler exposes statement ingestion over HTTP.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harborbooks/statement-ingest/internal/domain/statements/export"
	"github.com/harborbooks/statement-ingest/internal/domain/statements/service"
	"github.com/harborbooks/statement-ingest/internal/ingest/augment"
	"github.com/harborbooks/statement-ingest/internal/ingest/ingesterr"
)

// Handler wires the ingestion service into fiber routes.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register mounts all routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Post("/api/v1/statements/ingest", h.ingest)
}

func (h *Handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ingest accepts a multipart upload: file (required), user_id, context_tag,
// provider, augment. JSON out by default; Accept: text/csv switches the
// body to a CSV rendering of the transactions.
func (h *Handler) ingest(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file upload; use multipart field 'file'")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable file upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unreadable file upload")
	}

	userID := uuid.Nil
	if raw := c.FormValue("user_id"); raw != "" {
		userID, err = uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "user_id must be a UUID")
		}
	}

	tag := augment.ContextTag(c.FormValue("context_tag"))
	if tag == "" {
		tag = augment.TagExpense
	}

	result, err := h.svc.Ingest(c.Context(), service.IngestInput{
		UserID:       userID,
		Filename:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Data:         data,
		ContextTag:   tag,
		ProviderHint: c.FormValue("provider"),
		Augment:      c.FormValue("augment") == "true",
	})
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("ingestion rejected",
			slog.String("filename", fileHeader.Filename),
			slog.Int("status", status),
			slog.Any("error", err))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	if strings.Contains(c.Get(fiber.HeaderAccept), "text/csv") {
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set("X-Batch-ID", result.BatchID.String())
		var buf strings.Builder
		if err := export.WriteCSV(&buf, result.Transactions); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendString(buf.String())
	}
	return c.JSON(result)
}

// statusFor maps the failure taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ingesterr.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, ingesterr.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, ingesterr.ErrEmptyDocument),
		errors.Is(err, ingesterr.ErrInsufficientData),
		errors.Is(err, ingesterr.ErrCorruptDocument),
		errors.Is(err, ingesterr.ErrColumnsNotIdentified):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ingesterr.ErrRemoteTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, ingesterr.ErrRemoteService):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

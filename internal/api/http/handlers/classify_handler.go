package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-classifier/internal/api/dto"
	"github.com/spec-kit/ticket-classifier/internal/repository"
	"github.com/spec-kit/ticket-classifier/internal/service"
	apperrors "github.com/spec-kit/ticket-classifier/pkg/util/errorutil"
)

// ClassifyHandler serves the classification endpoints.
type ClassifyHandler struct {
	service   *service.ClassificationService
	repo      repository.PredictionRepository
	minLength int
	version   string
}

// NewClassifyHandler constructs handler.
func NewClassifyHandler(classificationService *service.ClassificationService, repo repository.PredictionRepository, minLength int, version string) *ClassifyHandler {
	return &ClassifyHandler{service: classificationService, repo: repo, minLength: minLength, version: version}
}

// Health GET /api/v1/health.
func (h *ClassifyHandler) Health(c *fiber.Ctx) error {
	artifacts := h.service.Pipeline().Artifacts()
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"message": "ticket classification API is running",
		"version": h.version,
		"model": fiber.Map{
			"dimension":   artifacts.Dimension(),
			"departments": artifacts.DepartmentCodec.Names(),
			"priorities":  artifacts.PriorityCodec.Names(),
			"fingerprint": artifacts.Fingerprint(),
		},
	})
}

// Predict POST /api/v1/predict.
func (h *ClassifyHandler) Predict(c *fiber.Ctx) error {
	var req dto.PredictRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	trimmed := strings.TrimSpace(req.Description)
	if trimmed == "" {
		return apperrors.NewValidationError("description cannot be empty", nil)
	}
	if h.minLength > 0 && len(trimmed) < h.minLength {
		return apperrors.NewValidationError("description too short", fiber.Map{
			"min_length": h.minLength,
		})
	}

	result, err := h.service.Classify(c.UserContext(), req.Description)
	if err != nil {
		return err
	}
	return c.JSON(dto.PredictResponse{
		Description: req.Description,
		Department:  result.Department,
		Priority:    result.Priority,
		Success:     true,
	})
}

// ListPredictions GET /api/v1/predictions.
func (h *ClassifyHandler) ListPredictions(c *fiber.Ctx) error {
	if h.repo == nil {
		return apperrors.NewDomainError("AUDIT_DISABLED", "prediction audit storage is not configured", fiber.StatusNotImplemented, nil)
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	records, err := h.repo.ListRecent(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.PredictionRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.PredictionRecordResponse{
			ExternalKey:        rec.ExternalKey,
			Description:        rec.Description,
			Department:         rec.Department,
			Priority:           rec.Priority,
			CacheHit:           rec.CacheHit,
			Backend:            rec.Backend,
			RemoteTicketID:     rec.RemoteTicketID,
			RemoteTicketNumber: rec.RemoteTicketNumber,
			CreatedAt:          rec.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

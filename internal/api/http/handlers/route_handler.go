package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-classifier/internal/api/dto"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk"
	"github.com/spec-kit/ticket-classifier/internal/service"
	apperrors "github.com/spec-kit/ticket-classifier/pkg/util/errorutil"
)

// RouteHandler serves the classify-and-route endpoints.
type RouteHandler struct {
	service *service.RoutingService
}

// NewRouteHandler constructs handler.
func NewRouteHandler(routingService *service.RoutingService) *RouteHandler {
	return &RouteHandler{service: routingService}
}

// ListBackends GET /api/v1/backends.
func (h *RouteHandler) ListBackends(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Backends()})
}

// RouteTicket POST /api/v1/tickets/route.
func (h *RouteHandler) RouteTicket(c *fiber.Ctx) error {
	var req dto.RouteTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title and description required", nil)
	}
	if strings.TrimSpace(req.Customer.Email) == "" {
		return apperrors.NewValidationError("customer email required", nil)
	}

	result, err := h.service.Route(c.UserContext(), service.RouteInput{
		Backend:     req.Backend,
		Title:       req.Title,
		Description: req.Description,
		Customer: helpdesk.Customer{
			Email:     req.Customer.Email,
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
		},
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.RouteTicketResponse{
		ExternalKey:        result.Classification.ExternalKey,
		Department:         result.Classification.Department,
		Priority:           result.Classification.Priority,
		Backend:            result.Backend,
		Group:              result.Group.Name,
		GroupCreated:       result.GroupCreated,
		RemoteTicketID:     result.Ticket.ID,
		RemoteTicketNumber: result.Ticket.Number,
	}})
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-admin/internal/api/dto"
	"github.com/spec-kit/fleet-admin/internal/auth"
	"github.com/spec-kit/fleet-admin/internal/service"
	apperrors "github.com/spec-kit/fleet-admin/pkg/util"
)

// StatusHistoryHandler serves the employee status audit trail.
type StatusHistoryHandler struct {
	service *service.StatusHistoryService
}

// NewStatusHistoryHandler constructs handler.
func NewStatusHistoryHandler(history *service.StatusHistoryService) *StatusHistoryHandler {
	return &StatusHistoryHandler{service: history}
}

// List GET /api/employees/:employeeID/status-history.
func (h *StatusHistoryHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	employeeID, err := strconv.ParseInt(c.Params("employeeID"), 10, 64)
	if err != nil || employeeID <= 0 {
		return apperrors.NewValidationError("invalid employee id", nil)
	}
	var query dto.HistoryQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if details := dto.Validate(query); details != nil {
		return apperrors.NewValidationError("invalid query", details)
	}

	entries, err := h.service.List(c.UserContext(), actor, employeeID, query.Limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusHistoryItems(entries)})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-admin/internal/api/dto"
	"github.com/spec-kit/fleet-admin/internal/auth"
	"github.com/spec-kit/fleet-admin/internal/service"
	apperrors "github.com/spec-kit/fleet-admin/pkg/util"
)

// EmployeeViewsHandler exposes employee list views.
type EmployeeViewsHandler struct {
	service *service.EmployeeViewService
}

// NewEmployeeViewsHandler constructs handler.
func NewEmployeeViewsHandler(viewService *service.EmployeeViewService) *EmployeeViewsHandler {
	return &EmployeeViewsHandler{service: viewService}
}

// Open POST /api/views/employees.
func (h *EmployeeViewsHandler) Open(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, snap := h.service.OpenView(c.UserContext(), actor)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ViewResponse{ViewID: id, View: snap}})
}

// Get GET /api/views/employees/:viewID.
func (h *EmployeeViewsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id := c.Params("viewID")
	snap, err := h.service.GetView(c.UserContext(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ViewResponse{ViewID: id, View: snap}})
}

// UpdateFilter PATCH /api/views/employees/:viewID/filter.
func (h *EmployeeViewsHandler) UpdateFilter(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.FilterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid filter", details)
	}
	patch, err := req.Patch()
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	id := c.Params("viewID")
	snap, err := h.service.UpdateFilter(c.UserContext(), id, actor, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ViewResponse{ViewID: id, View: snap}})
}

// SetPage PUT /api/views/employees/:viewID/page.
func (h *EmployeeViewsHandler) SetPage(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.PageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid page", details)
	}

	id := c.Params("viewID")
	snap, err := h.service.SetPage(c.UserContext(), id, actor, req.Page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ViewResponse{ViewID: id, View: snap}})
}

// Reload POST /api/views/employees/:viewID/reload.
func (h *EmployeeViewsHandler) Reload(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id := c.Params("viewID")
	snap, err := h.service.Reload(c.UserContext(), id, actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ViewResponse{ViewID: id, View: snap}})
}

// ToggleStatus POST /api/views/employees/:viewID/employees/:employeeID/toggle-status.
func (h *EmployeeViewsHandler) ToggleStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	employeeID, err := strconv.ParseInt(c.Params("employeeID"), 10, 64)
	if err != nil || employeeID <= 0 {
		return apperrors.NewValidationError("invalid employee id", nil)
	}
	var req dto.ToggleStatusRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	id := c.Params("viewID")
	res, err := h.service.ToggleStatus(c.UserContext(), id, actor, employeeID, req.Confirmed)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ToggleStatusResponse{
		ViewID: id,
		Change: dto.NewStatusChangeResponse(res.Change),
		View:   res.Snapshot,
	}})
}

// Close DELETE /api/views/employees/:viewID.
func (h *EmployeeViewsHandler) Close(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.CloseView(c.UserContext(), c.Params("viewID"), actor); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

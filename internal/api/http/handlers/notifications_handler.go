package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fleet-admin/internal/api/dto"
	"github.com/spec-kit/fleet-admin/internal/auth"
	"github.com/spec-kit/fleet-admin/internal/service"
	apperrors "github.com/spec-kit/fleet-admin/pkg/util"
)

// NotificationsHandler proxies the notifications dashboard and its actions.
type NotificationsHandler struct {
	service *service.DashboardService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(dashboard *service.DashboardService) *NotificationsHandler {
	return &NotificationsHandler{service: dashboard}
}

// Dashboard GET /api/notifications/dashboard.
func (h *NotificationsHandler) Dashboard(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var query dto.DashboardQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if details := dto.Validate(query); details != nil {
		return apperrors.NewValidationError("invalid query", details)
	}

	raw, err := h.service.Dashboard(c.UserContext(), actor, query.BranchID)
	if err != nil {
		return err
	}
	return sendRaw(c, fiber.StatusOK, raw)
}

// AcknowledgeAlert POST /api/notifications/alerts/:alertID/acknowledge.
func (h *NotificationsHandler) AcknowledgeAlert(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	alertID, err := positiveParam(c, "alertID")
	if err != nil {
		return err
	}
	raw, err := h.service.AcknowledgeAlert(c.UserContext(), actor, alertID)
	if err != nil {
		return err
	}
	return sendRaw(c, fiber.StatusOK, raw)
}

// Approve POST /api/notifications/approvals/:approvalID/approve.
func (h *NotificationsHandler) Approve(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	approvalID, err := positiveParam(c, "approvalID")
	if err != nil {
		return err
	}
	var req dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid payload", details)
	}
	raw, err := h.service.ApproveRequest(c.UserContext(), actor, approvalID, req.Note)
	if err != nil {
		return err
	}
	return sendRaw(c, fiber.StatusOK, raw)
}

// Reject POST /api/notifications/approvals/:approvalID/reject.
func (h *NotificationsHandler) Reject(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	approvalID, err := positiveParam(c, "approvalID")
	if err != nil {
		return err
	}
	var req dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("Vui lòng nhập lý do từ chối", details)
	}
	raw, err := h.service.RejectRequest(c.UserContext(), actor, approvalID, req.Note)
	if err != nil {
		return err
	}
	return sendRaw(c, fiber.StatusOK, raw)
}

func positiveParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

// sendRaw wraps an upstream payload in the data envelope without re-encoding it.
func sendRaw(c *fiber.Ctx, status int, raw json.RawMessage) error {
	if len(raw) == 0 {
		return c.Status(status).JSON(fiber.Map{"data": nil})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(status).SendString(`{"data":` + string(raw) + `}`)
}

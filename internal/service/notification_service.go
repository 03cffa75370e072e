package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/fleet-admin/internal/config"
	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/events"
	"github.com/spec-kit/fleet-admin/internal/repository"
)

// NotificationService handles domain events: it records the audit trail and
// emits notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	history    repository.StatusHistoryRepository
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service. history may be nil when Postgres is not configured.
func NewNotificationService(dispatcher events.Dispatcher, history repository.StatusHistoryRepository, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		history:    history,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventEmployeeStatusChanged, n.handleEmployeeStatusChanged)
}

func (n *NotificationService) handleEmployeeStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EmployeeStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("EmployeeStatusChanged",
		zap.Int64("employee_id", event.EmployeeID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
		zap.String("actor_user_id", event.Actor.UserID))

	var recordErr error
	if n.history != nil {
		entry := &domain.StatusHistoryEntry{
			EventID:      event.ID,
			EmployeeID:   event.EmployeeID,
			EmployeeName: payload.EmployeeName,
			BranchID:     payload.BranchID,
			OldStatus:    payload.OldStatus,
			NewStatus:    payload.NewStatus,
			ActorUserID:  event.Actor.UserID,
			ActorRole:    event.Actor.Role,
		}
		if err := n.history.Create(ctx, entry); err != nil {
			recordErr = fmt.Errorf("record status history: %w", err)
		}
	}

	n.sendWebhookNotificationStub(ctx, event)
	if payload.NewStatus == domain.EmployeeStatusInactive {
		n.sendEmailNotificationStub(ctx, event)
	}
	return recordErr
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("employee_id", event.EmployeeID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("employee_id", event.EmployeeID),
		zap.String("event_type", string(event.Type)))
}

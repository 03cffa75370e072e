package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/fleet-admin/internal/domain"
	apperrors "github.com/spec-kit/fleet-admin/pkg/util"
)

const defaultDashboardTimeout = 15 * time.Second

// DashboardFetcher is the backend surface the notifications widget needs.
type DashboardFetcher interface {
	GetEmployeeByUser(ctx context.Context, userID string) (*domain.Employee, error)
	NotificationsDashboard(ctx context.Context, branchID int64) (json.RawMessage, error)
	AcknowledgeAlert(ctx context.Context, alertID, userID int64) (json.RawMessage, error)
	ApproveRequest(ctx context.Context, historyID, userID int64, note string) (json.RawMessage, error)
	RejectRequest(ctx context.Context, historyID, userID int64, note string) (json.RawMessage, error)
}

// DashboardService proxies the notifications and approvals dashboard and its actions.
type DashboardService struct {
	fetchers func(domain.ActorContext) DashboardFetcher
	group    singleflight.Group
	timeout  time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs the service. timeout bounds one shared dashboard fetch.
func NewDashboardService(fetchers func(domain.ActorContext) DashboardFetcher, timeout time.Duration, logger *zap.Logger) *DashboardService {
	if timeout <= 0 {
		timeout = defaultDashboardTimeout
	}
	return &DashboardService{fetchers: fetchers, timeout: timeout, logger: logger.Named("dashboard")}
}

// Dashboard returns the dashboard payload for the actor. Drivers have no dashboard
// and get nil. Every role other than admin sees its own branch only; branchID is
// honoured for admins alone.
func (s *DashboardService) Dashboard(ctx context.Context, actor domain.ActorContext, branchID int64) (json.RawMessage, error) {
	if actor.Role == domain.RoleDriver {
		return nil, nil
	}
	fetcher := s.fetchers(actor)

	if actor.Role != domain.RoleAdmin {
		own, ok, err := s.ownBranch(ctx, fetcher, actor)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		branchID = own
	}

	key := actor.UserID + ":" + string(actor.Role) + ":" + strconv.FormatInt(branchID, 10)
	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// Coalesced callers must not inherit the first caller's cancellation.
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return fetcher.NotificationsDashboard(callCtx, branchID)
	})
	if err != nil {
		return nil, apperrors.NewUpstreamError("DASHBOARD_UNAVAILABLE", "could not load dashboard", err, map[string]any{"branch_id": branchID})
	}
	if shared {
		s.logger.Debug("dashboard request coalesced", zap.String("key", key))
	}
	raw, _ := v.(json.RawMessage)
	return raw, nil
}

func (s *DashboardService) ownBranch(ctx context.Context, fetcher DashboardFetcher, actor domain.ActorContext) (int64, bool, error) {
	if !actor.HasUser() {
		return 0, false, nil
	}
	self, err := fetcher.GetEmployeeByUser(ctx, actor.UserID)
	if err != nil {
		return 0, false, apperrors.NewUpstreamError("DASHBOARD_UNAVAILABLE", "could not resolve actor branch", err, nil)
	}
	if self == nil || self.BranchID == 0 {
		s.logger.Warn("no branch for dashboard actor",
			zap.String("user_id", actor.UserID),
			zap.String("role", string(actor.Role)))
		return 0, false, nil
	}
	return self.BranchID, true, nil
}

// AcknowledgeAlert marks a system alert as seen by the actor.
func (s *DashboardService) AcknowledgeAlert(ctx context.Context, actor domain.ActorContext, alertID int64) (json.RawMessage, error) {
	if actor.Role == domain.RoleDriver {
		return nil, apperrors.NewForbidden("drivers have no notifications dashboard")
	}
	userID, err := numericUserID(actor)
	if err != nil {
		return nil, err
	}
	raw, err := s.fetchers(actor).AcknowledgeAlert(ctx, alertID, userID)
	if err != nil {
		return nil, apperrors.NewUpstreamError("ALERT_ACKNOWLEDGE_FAILED", "Không thể xác nhận cảnh báo", err,
			map[string]any{"alert_id": alertID, "reason": err.Error()})
	}
	s.logger.Info("alert acknowledged", zap.Int64("alert_id", alertID), zap.Int64("user_id", userID))
	return raw, nil
}

// ApproveRequest approves a pending request. The note is optional.
func (s *DashboardService) ApproveRequest(ctx context.Context, actor domain.ActorContext, historyID int64, note string) (json.RawMessage, error) {
	userID, err := s.decider(actor)
	if err != nil {
		return nil, err
	}
	raw, err := s.fetchers(actor).ApproveRequest(ctx, historyID, userID, strings.TrimSpace(note))
	if err != nil {
		return nil, apperrors.NewUpstreamError("APPROVAL_FAILED", "Không thể phê duyệt", err,
			map[string]any{"approval_id": historyID, "reason": err.Error()})
	}
	s.logger.Info("request approved", zap.Int64("approval_id", historyID), zap.Int64("user_id", userID))
	return raw, nil
}

// RejectRequest rejects a pending request. A reason is mandatory.
func (s *DashboardService) RejectRequest(ctx context.Context, actor domain.ActorContext, historyID int64, note string) (json.RawMessage, error) {
	userID, err := s.decider(actor)
	if err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, apperrors.NewValidationError("Vui lòng nhập lý do từ chối", map[string]any{"note": "required"})
	}
	raw, err := s.fetchers(actor).RejectRequest(ctx, historyID, userID, note)
	if err != nil {
		return nil, apperrors.NewUpstreamError("REJECTION_FAILED", "Không thể từ chối", err,
			map[string]any{"approval_id": historyID, "reason": err.Error()})
	}
	s.logger.Info("request rejected", zap.Int64("approval_id", historyID), zap.Int64("user_id", userID))
	return raw, nil
}

func (s *DashboardService) decider(actor domain.ActorContext) (int64, error) {
	if !actor.Role.CanApprove() {
		return 0, apperrors.NewForbidden("role cannot decide approval requests")
	}
	return numericUserID(actor)
}

func numericUserID(actor domain.ActorContext) (int64, error) {
	id, err := strconv.ParseInt(actor.UserID, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewUnauthorized("session has no numeric user id")
	}
	return id, nil
}

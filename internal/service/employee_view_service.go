package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/events"
	"github.com/spec-kit/fleet-admin/internal/listview"
	apperrors "github.com/spec-kit/fleet-admin/pkg/util"
)

// EmployeeViewService drives employee list views on behalf of HTTP callers.
type EmployeeViewService struct {
	views      *listview.Registry
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewEmployeeViewService constructs the service.
func NewEmployeeViewService(views *listview.Registry, dispatcher events.Dispatcher, logger *zap.Logger) *EmployeeViewService {
	return &EmployeeViewService{views: views, dispatcher: dispatcher, logger: logger.Named("employee_views")}
}

// ToggleResult is the outcome of a confirmed status toggle.
type ToggleResult struct {
	Change   *domain.StatusChange
	Snapshot listview.Snapshot
}

// OpenView creates and loads a view. Load failures are reported in the snapshot.
func (s *EmployeeViewService) OpenView(ctx context.Context, actor domain.ActorContext) (string, listview.Snapshot) {
	id, ctrl := s.views.Open(ctx, actor)
	s.load(ctx, id, ctrl)
	return id, ctrl.Snapshot()
}

// GetView returns the current snapshot of a view.
func (s *EmployeeViewService) GetView(ctx context.Context, id string, actor domain.ActorContext) (listview.Snapshot, error) {
	ctrl, err := s.views.Get(ctx, id, actor)
	if err != nil {
		return listview.Snapshot{}, mapViewError(id, err)
	}
	return ctrl.Snapshot(), nil
}

// UpdateFilter applies a filter patch; the view returns to page 1.
func (s *EmployeeViewService) UpdateFilter(ctx context.Context, id string, actor domain.ActorContext, patch listview.FilterPatch) (listview.Snapshot, error) {
	ctrl, err := s.views.Get(ctx, id, actor)
	if err != nil {
		return listview.Snapshot{}, mapViewError(id, err)
	}
	ctrl.SetFilter(patch)
	s.persist(ctx, id)
	return ctrl.Snapshot(), nil
}

// SetPage moves the view to a page, clamped to the available range.
func (s *EmployeeViewService) SetPage(ctx context.Context, id string, actor domain.ActorContext, page int) (listview.Snapshot, error) {
	ctrl, err := s.views.Get(ctx, id, actor)
	if err != nil {
		return listview.Snapshot{}, mapViewError(id, err)
	}
	ctrl.SetPage(page)
	s.persist(ctx, id)
	return ctrl.Snapshot(), nil
}

// Reload refetches the view's data.
func (s *EmployeeViewService) Reload(ctx context.Context, id string, actor domain.ActorContext) (listview.Snapshot, error) {
	ctrl, err := s.views.Get(ctx, id, actor)
	if err != nil {
		return listview.Snapshot{}, mapViewError(id, err)
	}
	s.load(ctx, id, ctrl)
	return ctrl.Snapshot(), nil
}

// ToggleStatus flips an employee's status and publishes EventEmployeeStatusChanged.
func (s *EmployeeViewService) ToggleStatus(ctx context.Context, id string, actor domain.ActorContext, employeeID int64, confirmed bool) (*ToggleResult, error) {
	ctrl, err := s.views.Get(ctx, id, actor)
	if err != nil {
		return nil, mapViewError(id, err)
	}

	change, err := ctrl.ToggleStatus(ctx, employeeID, confirmed)
	if err != nil {
		return nil, mapToggleError(employeeID, err)
	}
	s.persist(ctx, id)

	if s.dispatcher != nil {
		event := events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventEmployeeStatusChanged,
			EmployeeID: change.EmployeeID,
			Actor:      events.ActorFrom(change.Actor),
			Timestamp:  change.ChangedAt,
			Payload: events.EmployeeStatusChangedPayload{
				EmployeeName: change.EmployeeName,
				BranchID:     change.BranchID,
				RoleID:       change.RoleID,
				OldStatus:    change.OldStatus,
				NewStatus:    change.NewStatus,
			},
		}
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("publish status change", zap.String("event_id", event.ID), zap.Error(err))
		}
	}

	return &ToggleResult{Change: change, Snapshot: ctrl.Snapshot()}, nil
}

// CloseView discards a view.
func (s *EmployeeViewService) CloseView(ctx context.Context, id string, actor domain.ActorContext) error {
	if err := s.views.Close(ctx, id, actor); err != nil {
		return mapViewError(id, err)
	}
	return nil
}

func (s *EmployeeViewService) load(ctx context.Context, id string, ctrl *listview.Controller) {
	if err := ctrl.Load(ctx); err != nil {
		s.logger.Info("view load did not apply", zap.String("view_id", id), zap.Error(err))
	}
	s.persist(ctx, id)
}

func (s *EmployeeViewService) persist(ctx context.Context, id string) {
	if err := s.views.Persist(ctx, id); err != nil {
		s.logger.Warn("persist view state", zap.String("view_id", id), zap.Error(err))
	}
}

func mapViewError(id string, err error) error {
	switch {
	case errors.Is(err, listview.ErrViewNotFound):
		return apperrors.NewNotFound("view", map[string]any{"view_id": id})
	case errors.Is(err, listview.ErrViewForbidden):
		return apperrors.NewForbidden("view belongs to another user")
	}
	return apperrors.NewInternalError(err)
}

func mapToggleError(employeeID int64, err error) error {
	var confirm *listview.ConfirmationRequiredError
	if errors.As(err, &confirm) {
		return apperrors.NewPreconditionRequired(confirm.Prompt(), map[string]any{
			"employee_id":   confirm.EmployeeID,
			"employee_name": confirm.EmployeeName,
			"action":        confirm.Action,
		})
	}
	var toggleErr *listview.ToggleError
	if errors.As(err, &toggleErr) {
		return apperrors.NewUpstreamError("EMPLOYEE_UPDATE_FAILED", toggleErr.Error(), toggleErr.Err, map[string]any{
			"employee_id": toggleErr.EmployeeID,
			"action":      toggleErr.Action,
		})
	}
	switch {
	case errors.Is(err, listview.ErrViewOnly):
		return apperrors.NewForbidden("view only: status changes are not allowed for this role")
	case errors.Is(err, listview.ErrEmployeeNotFound):
		return apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
	}
	return apperrors.NewInternalError(err)
}

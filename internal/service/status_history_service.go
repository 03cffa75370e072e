package service

import (
	"context"
	"net/http"

	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/repository"
	apperrors "github.com/spec-kit/fleet-admin/pkg/util"
)

// BranchResolver looks up the employee record of a user.
type BranchResolver interface {
	GetEmployeeByUser(ctx context.Context, userID string) (*domain.Employee, error)
}

// StatusHistoryService reads the employee status audit trail.
type StatusHistoryService struct {
	history   repository.StatusHistoryRepository
	resolvers func(domain.ActorContext) BranchResolver
}

// NewStatusHistoryService constructs the service. A nil repository makes every call fail with 503.
func NewStatusHistoryService(history repository.StatusHistoryRepository, resolvers func(domain.ActorContext) BranchResolver) *StatusHistoryService {
	return &StatusHistoryService{history: history, resolvers: resolvers}
}

// List returns the newest entries for an employee. Branch-scoped actors only see
// entries recorded for their own branch.
func (s *StatusHistoryService) List(ctx context.Context, actor domain.ActorContext, employeeID int64, limit int) ([]domain.StatusHistoryEntry, error) {
	if s.history == nil {
		return nil, apperrors.NewDomainError("HISTORY_UNAVAILABLE", "status history storage is not configured", http.StatusServiceUnavailable, nil)
	}
	entries, err := s.history.ListByEmployee(ctx, employeeID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !actor.Role.IsBranchScoped() {
		return entries, nil
	}

	if !actor.HasUser() {
		return nil, apperrors.NewForbidden("actor branch could not be resolved")
	}
	self, err := s.resolvers(actor).GetEmployeeByUser(ctx, actor.UserID)
	if err != nil {
		return nil, apperrors.NewUpstreamError("BRANCH_LOOKUP_FAILED", "could not resolve actor branch", err, nil)
	}
	if self == nil || self.BranchID == 0 {
		return nil, apperrors.NewForbidden("actor branch could not be resolved")
	}
	scoped := make([]domain.StatusHistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.BranchID == self.BranchID {
			scoped = append(scoped, e)
		}
	}
	return scoped, nil
}

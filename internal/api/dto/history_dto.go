package dto

import (
	"time"

	"github.com/spec-kit/fleet-admin/internal/domain"
)

// HistoryQuery captures status history query params.
type HistoryQuery struct {
	Limit int `json:"limit" query:"limit" validate:"omitempty,gte=1,lte=200"`
}

// DashboardQuery captures notifications dashboard query params.
type DashboardQuery struct {
	BranchID int64 `json:"branchId" query:"branchId" validate:"omitempty,gte=1"`
}

// StatusHistoryItem response.
type StatusHistoryItem struct {
	ID           string                `json:"id"`
	EmployeeID   int64                 `json:"employeeId"`
	EmployeeName string                `json:"employeeName"`
	BranchID     int64                 `json:"branchId"`
	OldStatus    domain.EmployeeStatus `json:"oldStatus"`
	NewStatus    domain.EmployeeStatus `json:"newStatus"`
	ActorUserID  string                `json:"actorUserId"`
	ActorRole    domain.Role           `json:"actorRole"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// NewStatusHistoryItems maps audit rows.
func NewStatusHistoryItems(entries []domain.StatusHistoryEntry) []StatusHistoryItem {
	items := make([]StatusHistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, StatusHistoryItem{
			ID:           e.ID,
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			BranchID:     e.BranchID,
			OldStatus:    e.OldStatus,
			NewStatus:    e.NewStatus,
			ActorUserID:  e.ActorUserID,
			ActorRole:    e.ActorRole,
			CreatedAt:    e.CreatedAt,
		})
	}
	return items
}

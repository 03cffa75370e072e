package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/listview"
)

// FilterRequest payload. Absent fields are left untouched; branchId and roleId
// accept a number, a numeric string, or null / "" to clear the selection.
type FilterRequest struct {
	SearchTerm *string         `json:"searchTerm" validate:"omitempty,max=200"`
	BranchID   json.RawMessage `json:"branchId"`
	RoleID     json.RawMessage `json:"roleId"`
}

// Patch converts the request into a filter patch.
func (r FilterRequest) Patch() (listview.FilterPatch, error) {
	patch := listview.FilterPatch{SearchTerm: r.SearchTerm}

	branch, clearBranch, err := optionalID(r.BranchID)
	if err != nil {
		return patch, fmt.Errorf("branchId: %w", err)
	}
	patch.BranchID, patch.ClearBranch = branch, clearBranch

	role, clearRole, err := optionalID(r.RoleID)
	if err != nil {
		return patch, fmt.Errorf("roleId: %w", err)
	}
	patch.RoleID, patch.ClearRole = role, clearRole
	return patch, nil
}

func optionalID(raw json.RawMessage) (*int64, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, true, nil
	}

	var text string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return nil, false, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, true, nil
		}
	} else {
		text = string(trimmed)
	}

	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return nil, false, fmt.Errorf("must be a positive integer")
	}
	return &id, false, nil
}

// PageRequest payload.
type PageRequest struct {
	Page int `json:"page" validate:"required,gte=1"`
}

// ToggleStatusRequest payload. The toggle is only applied when confirmed is true.
type ToggleStatusRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ViewResponse wraps a view snapshot with its id.
type ViewResponse struct {
	ViewID string            `json:"viewId"`
	View   listview.Snapshot `json:"view"`
}

// StatusChangeResponse describes an applied toggle.
type StatusChangeResponse struct {
	EmployeeID   int64                 `json:"employeeId"`
	EmployeeName string                `json:"employeeName"`
	OldStatus    domain.EmployeeStatus `json:"oldStatus"`
	NewStatus    domain.EmployeeStatus `json:"newStatus"`
	ChangedAt    time.Time             `json:"changedAt"`
}

// ToggleStatusResponse is the body of a successful toggle.
type ToggleStatusResponse struct {
	ViewID string               `json:"viewId"`
	Change StatusChangeResponse `json:"change"`
	View   listview.Snapshot    `json:"view"`
}

// NewStatusChangeResponse maps a domain change.
func NewStatusChangeResponse(change *domain.StatusChange) StatusChangeResponse {
	return StatusChangeResponse{
		EmployeeID:   change.EmployeeID,
		EmployeeName: change.EmployeeName,
		OldStatus:    change.OldStatus,
		NewStatus:    change.NewStatus,
		ChangedAt:    change.ChangedAt,
	}
}

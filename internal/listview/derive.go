package listview

import (
	"strings"

	"github.com/spec-kit/fleet-admin/internal/domain"
)

// Scope restricts a view to one branch. A zero Scope is unrestricted.
type Scope struct {
	BranchID   int64  `json:"branchId,omitempty"`
	BranchName string `json:"branchName,omitempty"`
}

// Restricted reports whether the scope pins a branch.
func (s Scope) Restricted() bool {
	return s.BranchID != 0
}

// FilterEmployees derives the visible records. Admin records are always dropped,
// records outside a restricted scope are dropped regardless of the branch filter,
// and the remaining predicates are ANDed.
func FilterEmployees(items []domain.Employee, filter FilterState, scope Scope) []domain.Employee {
	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))
	out := make([]domain.Employee, 0, len(items))
	for _, e := range items {
		if e.IsAdmin() {
			continue
		}
		if scope.Restricted() && e.BranchID != scope.BranchID {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(e.UserFullName), term) &&
			!strings.Contains(strings.ToLower(e.UserEmail), term) {
			continue
		}
		if filter.BranchID != nil && e.BranchID != *filter.BranchID {
			continue
		}
		if filter.RoleID != nil && e.RoleID != *filter.RoleID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// TotalPages is max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-based page of items. Out of range pages are empty.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// RoleOptions drops the admin role from the selectable roles.
func RoleOptions(roles []domain.RoleRecord) []domain.RoleRecord {
	out := make([]domain.RoleRecord, 0, len(roles))
	for _, r := range roles {
		if domain.IsAdminRoleName(r.RoleName) {
			continue
		}
		out = append(out, r)
	}
	return out
}

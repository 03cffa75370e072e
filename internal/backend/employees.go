package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spec-kit/fleet-admin/internal/domain"
)

// ListEmployees calls GET /api/employees.
func (a *ActorClient) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	raw, err := a.get(ctx, "employees.list", "/api/employees")
	if err != nil {
		return nil, err
	}
	return DecodeList[domain.Employee](raw)
}

// ListEmployeesByBranch calls GET /api/employees/branch/{branchId}.
func (a *ActorClient) ListEmployeesByBranch(ctx context.Context, branchID int64) ([]domain.Employee, error) {
	raw, err := a.get(ctx, "employees.by_branch", "/api/employees/branch/"+strconv.FormatInt(branchID, 10))
	if err != nil {
		return nil, err
	}
	return DecodeList[domain.Employee](raw)
}

// GetEmployeeByUser calls GET /api/employees/user/{userId}. A missing record yields nil.
func (a *ActorClient) GetEmployeeByUser(ctx context.Context, userID string) (*domain.Employee, error) {
	if userID == "" {
		return nil, fmt.Errorf("employees.by_user: empty user id")
	}
	raw, err := a.get(ctx, "employees.by_user", "/api/employees/user/"+url.PathEscape(userID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return DecodeObject[domain.Employee](raw)
}

// UpdateEmployee calls PUT /api/employees/{id}.
func (a *ActorClient) UpdateEmployee(ctx context.Context, id int64, update domain.EmployeeUpdate) error {
	_, err := a.put(ctx, "employees.update", "/api/employees/"+strconv.FormatInt(id, 10), update)
	return err
}

package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fleet-admin/internal/domain"
)

func employee(id, branchID, roleID int64, name, roleName string) domain.Employee {
	return domain.Employee{
		ID:           id,
		UserID:       id + 100,
		UserFullName: name,
		UserEmail:    fmt.Sprintf("user%d@fleet.vn", id),
		RoleID:       roleID,
		RoleName:     roleName,
		BranchID:     branchID,
		Status:       domain.EmployeeStatusActive,
	}
}

func sampleEmployees() []domain.Employee {
	return []domain.Employee{
		employee(1, 1, 1, "Quản trị", "Admin"),
		employee(2, 1, 2, "Nguyễn Văn An", "Manager"),
		employee(3, 1, 3, "Trần Thị Bình", "Driver"),
		employee(4, 2, 3, "Lê Văn Cường", "Driver"),
		employee(5, 2, 4, "Phạm An Dũng", "Accountant"),
		employee(6, 2, 1, "Root", "ADMIN"),
	}
}

func ids(items []domain.Employee) []int64 {
	out := make([]int64, 0, len(items))
	for _, e := range items {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterEmployeesNeverReturnsAdmins(t *testing.T) {
	admin := int64(1)
	filters := []FilterState{
		{},
		{RoleID: &admin},
		{SearchTerm: "root"},
		{SearchTerm: "quản"},
	}
	for _, f := range filters {
		for _, e := range FilterEmployees(sampleEmployees(), f, Scope{}) {
			assert.False(t, e.IsAdmin(), "filter %+v returned admin %d", f, e.ID)
		}
	}
}

func TestFilterEmployeesScopeOverridesBranchFilter(t *testing.T) {
	other := int64(2)
	got := FilterEmployees(sampleEmployees(), FilterState{BranchID: &other}, Scope{BranchID: 1})
	assert.Empty(t, got)

	got = FilterEmployees(sampleEmployees(), FilterState{}, Scope{BranchID: 1})
	assert.Equal(t, []int64{2, 3}, ids(got))
}

func TestFilterEmployeesSearchAndSelects(t *testing.T) {
	items := sampleEmployees()

	assert.Equal(t, []int64{2, 5}, ids(FilterEmployees(items, FilterState{SearchTerm: "AN"}, Scope{})))
	assert.Equal(t, []int64{4}, ids(FilterEmployees(items, FilterState{SearchTerm: "user4@"}, Scope{})))

	driver, branch := int64(3), int64(2)
	assert.Equal(t, []int64{3, 4}, ids(FilterEmployees(items, FilterState{RoleID: &driver}, Scope{})))
	assert.Equal(t, []int64{4}, ids(FilterEmployees(items, FilterState{RoleID: &driver, BranchID: &branch}, Scope{})))
	assert.Empty(t, FilterEmployees(items, FilterState{RoleID: &driver, SearchTerm: "dũng"}, Scope{}))
}

func TestPaginationScenario(t *testing.T) {
	items := make([]domain.Employee, 0, 25)
	for i := int64(1); i <= 25; i++ {
		items = append(items, employee(i, 1, 2, fmt.Sprintf("NV %02d", i), "Driver"))
	}

	require.Equal(t, 3, TotalPages(len(items), 10))
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids(Paginate(items, 1, 10)))
	assert.Equal(t, []int64{21, 22, 23, 24, 25}, ids(Paginate(items, 3, 10)))
	assert.Empty(t, Paginate(items, 4, 10))

	for page := 1; page <= 3; page++ {
		assert.LessOrEqual(t, len(Paginate(items, page, 10)), 10)
	}
}

func TestTotalPagesEmpty(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Empty(t, Paginate([]domain.Employee{}, 1, 10))
}

func TestRoleOptionsDropAdmin(t *testing.T) {
	roles := []domain.RoleRecord{{ID: 1, RoleName: "ADMIN"}, {ID: 2, RoleName: "Manager"}, {ID: 3, RoleName: " admin "}}
	assert.Equal(t, []domain.RoleRecord{{ID: 2, RoleName: "Manager"}}, RoleOptions(roles))
}

package domain

// EmployeeStatus is the lifecycle state of an employee.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "ACTIVE"
	EmployeeStatusInactive EmployeeStatus = "INACTIVE"
)

// Flip returns the opposite status.
func (s EmployeeStatus) Flip() EmployeeStatus {
	if s == EmployeeStatusActive {
		return EmployeeStatusInactive
	}
	return EmployeeStatusActive
}

// ToggleAction names the action that moves an employee into the target status.
func ToggleAction(target EmployeeStatus) string {
	if target == EmployeeStatusInactive {
		return "vô hiệu hóa"
	}
	return "kích hoạt lại"
}

// Employee is a read-only copy of a backend employee record.
type Employee struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"userId"`
	UserFullName string         `json:"userFullName"`
	UserEmail    string         `json:"userEmail"`
	UserPhone    string         `json:"userPhone"`
	RoleID       int64          `json:"roleId"`
	RoleName     string         `json:"roleName"`
	BranchID     int64          `json:"branchId"`
	BranchName   string         `json:"branchName"`
	Status       EmployeeStatus `json:"status"`
}

// IsAdmin reports whether the record belongs to the admin role. Admins are not employees.
func (e Employee) IsAdmin() bool {
	return IsAdminRoleName(e.RoleName)
}

// EmployeeUpdate is the payload of an employee update request.
type EmployeeUpdate struct {
	BranchID int64          `json:"branchId"`
	RoleID   int64          `json:"roleId"`
	Status   EmployeeStatus `json:"status"`
}

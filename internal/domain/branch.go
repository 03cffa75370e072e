package domain

// Branch is a company branch as returned by the backend.
type Branch struct {
	ID         int64  `json:"id"`
	BranchName string `json:"branchName"`
	Location   string `json:"location,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// RoleRecord is a backend role definition.
type RoleRecord struct {
	ID          int64  `json:"id"`
	RoleName    string `json:"roleName"`
	Description string `json:"description,omitempty"`
}

package listview

// DefaultPageSize is used when a view is opened without an explicit page size.
const DefaultPageSize = 10

// FilterState is the user-controlled filter of a view.
type FilterState struct {
	SearchTerm string `json:"searchTerm"`
	BranchID   *int64 `json:"branchId,omitempty"`
	RoleID     *int64 `json:"roleId,omitempty"`
}

// FilterPatch is a partial filter update. A nil field is left untouched;
// the Clear flags unset a selection.
type FilterPatch struct {
	SearchTerm  *string
	BranchID    *int64
	ClearBranch bool
	RoleID      *int64
	ClearRole   bool
}

// Empty reports whether the patch changes nothing.
func (p FilterPatch) Empty() bool {
	return p.SearchTerm == nil && p.BranchID == nil && !p.ClearBranch && p.RoleID == nil && !p.ClearRole
}

// State is the filter and pagination state of one view.
type State struct {
	Filter      FilterState `json:"filter"`
	CurrentPage int         `json:"currentPage"`
	PageSize    int         `json:"pageSize"`
}

// NewState returns a state on page 1 with no filter.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{CurrentPage: 1, PageSize: pageSize}
}

// ApplyFilter merges the patch into the filter and moves back to page 1.
// The reset happens even if the patch leaves the filter unchanged.
func ApplyFilter(s State, p FilterPatch) State {
	next := s
	if p.SearchTerm != nil {
		next.Filter.SearchTerm = *p.SearchTerm
	}
	switch {
	case p.ClearBranch:
		next.Filter.BranchID = nil
	case p.BranchID != nil:
		next.Filter.BranchID = int64Ptr(*p.BranchID)
	}
	switch {
	case p.ClearRole:
		next.Filter.RoleID = nil
	case p.RoleID != nil:
		next.Filter.RoleID = int64Ptr(*p.RoleID)
	}
	next.CurrentPage = 1
	return next
}

// SetPage moves to page, clamped into [1, totalPages].
func SetPage(s State, page, totalPages int) State {
	s.CurrentPage = page
	return ClampPage(s, totalPages)
}

// ClampPage pulls CurrentPage back into [1, totalPages].
func ClampPage(s State, totalPages int) State {
	if totalPages < 1 {
		totalPages = 1
	}
	if s.CurrentPage < 1 {
		s.CurrentPage = 1
	}
	if s.CurrentPage > totalPages {
		s.CurrentPage = totalPages
	}
	return s
}

func int64Ptr(v int64) *int64 {
	return &v
}

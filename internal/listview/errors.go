package listview

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var (
	// ErrViewOnly is returned when the actor may look at the list but not change it.
	ErrViewOnly = errors.New("listview: actor has view-only access")
	// ErrEmployeeNotFound is returned for ids that are not part of the view.
	ErrEmployeeNotFound = errors.New("listview: employee not in view")
	// ErrScopeUnresolved is returned when a branch-scoped actor has no resolvable branch.
	ErrScopeUnresolved = errors.New("listview: actor branch could not be resolved")
	// ErrViewNotFound is returned for unknown or expired view ids.
	ErrViewNotFound = errors.New("listview: view not found")
	// ErrViewForbidden is returned when a view is accessed by someone other than its owner.
	ErrViewForbidden = errors.New("listview: view belongs to another user")
)

// ConfirmationRequiredError asks the caller to confirm a status toggle.
type ConfirmationRequiredError struct {
	EmployeeID   int64
	EmployeeName string
	Action       string
}

// Prompt is the confirmation question shown to the user.
func (e *ConfirmationRequiredError) Prompt() string {
	return fmt.Sprintf("Bạn có chắc muốn %s nhân viên \"%s\"?", e.Action, e.EmployeeName)
}

func (e *ConfirmationRequiredError) Error() string {
	return e.Prompt()
}

// ToggleError is a failed status update. The view state is left as it was.
type ToggleError struct {
	EmployeeID int64
	Action     string
	Err        error
}

func (e *ToggleError) Error() string {
	msg := capitalize(e.Action) + " nhân viên thất bại"
	if e.Err != nil && e.Err.Error() != "" {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ToggleError) Unwrap() error {
	return e.Err
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

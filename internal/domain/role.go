package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role enumerates actor roles known to the admin console.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleManager     Role = "MANAGER"
	RoleConsultant  Role = "CONSULTANT"
	RoleCoordinator Role = "COORDINATOR"
	RoleDriver      Role = "DRIVER"
	RoleAccountant  Role = "ACCOUNTANT"
)

// AdminRoleName is the backend role name that never appears in employee lists or role pickers.
const AdminRoleName = "admin"

var roleAliases = map[string]Role{
	"ADMIN":                  RoleAdmin,
	"QUAN TRI VIEN":          RoleAdmin,
	"QUAN TRI VIEN HE THONG": RoleAdmin,
	"MANAGER":                RoleManager,
	"QUAN LY":                RoleManager,
	"QUAN LY CHI NHANH":      RoleManager,
	"CONSULTANT":             RoleConsultant,
	"DIEU HANH":              RoleConsultant,
	"TU VAN":                 RoleConsultant,
	"COORDINATOR":            RoleCoordinator,
	"DIEU PHOI":              RoleCoordinator,
	"DIEU PHOI VIEN":         RoleCoordinator,
	"DRIVER":                 RoleDriver,
	"TAI XE":                 RoleDriver,
	"ACCOUNTANT":             RoleAccountant,
	"KE TOAN":                RoleAccountant,
}

// d-stroke has no canonical decomposition.
var dStroke = strings.NewReplacer("đ", "d", "Đ", "D")

// NormalizeRoleLabel strips diacritics, collapses whitespace and upper-cases a role label.
func NormalizeRoleLabel(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, raw)
	if err != nil {
		stripped = raw
	}
	stripped = dStroke.Replace(stripped)
	return strings.ToUpper(strings.Join(strings.Fields(stripped), " "))
}

// ResolveRole maps a stored role label (English or Vietnamese) onto a Role.
// Unknown labels resolve to their normalized form.
func ResolveRole(raw string) Role {
	normalized := NormalizeRoleLabel(raw)
	if normalized == "" {
		return ""
	}
	if role, ok := roleAliases[normalized]; ok {
		return role
	}
	return Role(normalized)
}

// IsBranchScoped reports whether the role only sees its own branch.
func (r Role) IsBranchScoped() bool {
	return r == RoleManager || r == RoleAccountant
}

// CanToggleStatus reports whether the role gets the status toggle control.
// This is a presentation rule; the backend enforces its own authorization.
func (r Role) CanToggleStatus() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanApprove reports whether the role may decide pending approval requests.
func (r Role) CanApprove() bool {
	return r == RoleAdmin || r == RoleManager
}

// IsAdminRoleName reports whether a backend role name denotes the admin role.
func IsAdminRoleName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), AdminRoleName)
}

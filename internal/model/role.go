package model

import (
	"strings"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
)

// Role is fixed at sign-up.
type Role string

const (
	RoleGeneral Role = "general_user"
	RoleAdmin   Role = "admin_user"
)

// ParseRole maps user input onto the allow-list. An empty value selects the
// general role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleGeneral:
		return RoleGeneral, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", errs.Validation("Role must be one of: %s, %s", RoleGeneral, RoleAdmin)
}

func (r Role) String() string { return string(r) }

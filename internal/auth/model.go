package auth

import (
	"fmt"
	"strings"
)

// Role is the access tier of an administrator. The wire values match the
// values stored in the administrators table.
type Role string

const (
	RoleAdmin  Role = "Adm"
	RoleEditor Role = "Editor"
)

// ParseRole maps user input onto a known role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adm", "admin":
		return RoleAdmin, nil
	case "editor":
		return RoleEditor, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

type Administrator struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// Principal is the caller identified by a verified token.
type Principal struct {
	Email string
	Role  Role
}

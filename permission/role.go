package permission

import (
	"errors"
	"strings"
)

// Role is one of the fixed application roles.
type Role uint8

const (
	// RoleUnknown is the zero value and is never a member of any set.
	RoleUnknown Role = iota
	RoleAdmin
	RoleDiretor
	RoleAnalista
	RoleInspetor

	roleCount
)

// ErrUnknownRole is returned by ParseRole for names outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

var roleCodes = [roleCount]string{
	RoleUnknown:  "",
	RoleAdmin:    "ADMIN",
	RoleDiretor:  "DIRETOR",
	RoleAnalista: "ANALISTA",
	RoleInspetor: "INSPETOR",
}

var roleDisplayNames = [roleCount]string{
	RoleUnknown:  "",
	RoleAdmin:    "Administrador",
	RoleDiretor:  "Diretor",
	RoleAnalista: "Analista",
	RoleInspetor: "Inspetor",
}

// Roles lists every valid role in hierarchy order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleDiretor, RoleAnalista, RoleInspetor}
}

// ParseRole maps a stored role code such as "ADMIN" to a Role.
func ParseRole(code string) (Role, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for r := RoleAdmin; r < roleCount; r++ {
		if roleCodes[r] == code {
			return r, nil
		}
	}
	return RoleUnknown, ErrUnknownRole
}

// Valid reports whether r is one of the four application roles.
func (r Role) Valid() bool {
	return r > RoleUnknown && r < roleCount
}

// String returns the stored role code.
func (r Role) String() string {
	if !r.Valid() {
		return "UNKNOWN"
	}
	return roleCodes[r]
}

// DisplayName returns the human-readable pt-BR role name.
func (r Role) DisplayName() string {
	if !r.Valid() {
		return r.String()
	}
	return roleDisplayNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrUnknownRole
	}
	return []byte(roleCodes[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

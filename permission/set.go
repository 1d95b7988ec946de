package permission

import "strings"

// Set is a bitmask of roles. Bit i corresponds to Role(i).
type Set uint8

// NewSet builds a Set from roles. Invalid roles are ignored.
func NewSet(roles ...Role) Set {
	var s Set
	for _, r := range roles {
		s.Add(r)
	}
	return s
}

// Has reports whether r is a member of s.
func (s Set) Has(r Role) bool {
	if !r.Valid() {
		return false
	}
	return s&(1<<r) != 0
}

// Add inserts r into s.
func (s *Set) Add(r Role) {
	if !r.Valid() {
		return
	}
	*s |= 1 << r
}

// Remove deletes r from s.
func (s *Set) Remove(r Role) {
	if !r.Valid() {
		return
	}
	*s &^= 1 << r
}

// Empty reports whether s has no members.
func (s Set) Empty() bool {
	return s == 0
}

// Roles returns the members of s in hierarchy order.
func (s Set) Roles() []Role {
	out := make([]Role, 0, roleCount)
	for _, r := range Roles() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// DisplayNames joins member display names with " ou ", for example
// "Administrador ou Diretor".
func (s Set) DisplayNames() string {
	roles := s.Roles()
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.DisplayName()
	}
	return strings.Join(names, " ou ")
}

// Codes returns the member role codes in hierarchy order.
func (s Set) Codes() []string {
	roles := s.Roles()
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.String()
	}
	return codes
}

// String returns member codes joined by "|".
func (s Set) String() string {
	return strings.Join(s.Codes(), "|")
}

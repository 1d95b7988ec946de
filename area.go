package goSession

import "strings"

// Area selects which login and landing pages a redirect targets.
type Area uint8

const (
	AreaGeneral Area = iota
	AreaAdmin
)

func (a Area) String() string {
	if a == AreaAdmin {
		return "admin"
	}
	return "general"
}

// adminPath reports whether path is the admin prefix or lies under it as a
// whole segment, so "/administrator" is not admin-area.
func (p PathsConfig) adminPath(path string) bool {
	prefix := strings.TrimSuffix(p.AdminPrefix, "/")
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}

// AreaOf classifies a full request path, mount prefix included.
func (p PathsConfig) AreaOf(path string) Area {
	if p.adminPath(path) {
		return AreaAdmin
	}
	return AreaGeneral
}

// LoginPath returns the login page of area.
func (p PathsConfig) LoginPath(a Area) string {
	if a == AreaAdmin {
		return p.AdminLogin
	}
	return p.Login
}

// LandingPath returns the post-login page of area.
func (p PathsConfig) LandingPath(a Area) string {
	if a == AreaAdmin {
		return p.AdminLanding
	}
	return p.Dashboard
}

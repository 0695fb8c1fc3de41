package auth

import "strings"

type Role string

const (
	// RoleUser is issued at login; every authenticated route accepts it.
	// Organizer actions carry no distinct role.
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func NormalizeRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUser
	}
}

func HasRole(role string, allowed ...Role) bool {
	if len(allowed) == 0 {
		return false
	}
	current := NormalizeRole(role)
	for _, candidate := range allowed {
		if current == candidate {
			return true
		}
	}
	return false
}

package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether the given role name is one the system knows.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

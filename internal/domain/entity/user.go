package entity

// User roles
const (
	RoleAdmin      = "ADMIN"
	RoleCommercial = "COMMERCIAL"
	RoleSupervisor = "SUPERVISOR"
	RolePartner    = "PARTNER"
	RoleClient     = "CLIENT"
)

// User represents an authenticated actor
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	IsActive       bool   `json:"is_active"`
}

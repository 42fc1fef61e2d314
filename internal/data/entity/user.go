package entity

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleProvider   UserRole = "provider"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
	RoleGuest      UserRole = "guest"
	RoleSystem     UserRole = "system"
)

// IsAdmin reports whether the role carries administrative override rights.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type User struct {
	Base
	TenantID uuid.UUID `db:"tenant_id"`
	Name     string    `db:"name"`
	Email    string    `db:"email"`
	Role     UserRole  `db:"role"`
	IsActive bool      `db:"is_active"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is issued by the identity service; this core only validates it.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	TenantID  uuid.UUID  `db:"tenant_id"`
	Token     string     `db:"token"`
	Role      UserRole   `db:"role"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

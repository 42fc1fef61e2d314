package usecase

import (
	"context"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
)

// tenantFrom returns the tenant the middleware resolved for this request.
// Its absence is a wiring bug, not user error.
func tenantFrom(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := utils.GetTenantIDFromContext(ctx)
	if !ok {
		return uuid.Nil, apperr.Dependency("tenant not resolved for request", nil)
	}
	return tenantID, nil
}

func actorFrom(ctx context.Context) (uuid.UUID, bool) {
	return utils.GetUserIDFromContext(ctx)
}

func roleFrom(ctx context.Context) entity.UserRole {
	role, ok := utils.GetRoleFromContext(ctx)
	if !ok {
		return entity.RoleGuest
	}
	return entity.UserRole(role)
}

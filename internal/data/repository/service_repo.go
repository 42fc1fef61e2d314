package repository

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ServiceRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Service, error)
}

type serviceRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewServiceRepository(db database.Executor, log *zap.Logger) ServiceRepository {
	return &serviceRepository{
		db:  db,
		log: log.With(zap.String("repository", "service")),
	}
}

func (r *serviceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*entity.Service, error) {
	query := `
		SELECT id, tenant_id, provider_id, name, base_price, currency,
		       duration_minutes, is_active, created_at, updated_at
		FROM services
		WHERE id = $1 AND tenant_id = $2
	`

	var service entity.Service
	err := r.db.QueryRow(ctx, query, id, tenantID).Scan(
		&service.ID,
		&service.TenantID,
		&service.ProviderID,
		&service.Name,
		&service.BasePrice,
		&service.Currency,
		&service.DurationMinutes,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find service by ID",
			zap.Error(err),
			zap.String("service_id", id.String()),
		)
		return nil, fmt.Errorf("find service by ID %s: %w", id.String(), err)
	}

	return &service, nil
}

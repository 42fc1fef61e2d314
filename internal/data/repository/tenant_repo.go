package repository

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TenantRepository interface {
	FindByDomain(ctx context.Context, domain string) (*entity.Tenant, error)
	FindByAPIKeyID(ctx context.Context, keyID string) (*entity.Tenant, error)
}

type tenantRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewTenantRepository(db database.Executor, log *zap.Logger) TenantRepository {
	return &tenantRepository{
		db:  db,
		log: log.With(zap.String("repository", "tenant")),
	}
}

const tenantColumns = `id, name, domain, api_key_id, api_key_hash, is_active, created_at, updated_at`

func (r *tenantRepository) scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := row.Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Domain,
		&tenant.APIKeyID,
		&tenant.APIKeyHash,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) FindByDomain(ctx context.Context, domain string) (*entity.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE domain = $1
	`

	tenant, err := r.scanTenant(r.db.QueryRow(ctx, query, domain))
	if err != nil {
		r.log.Error("Failed to find tenant by domain",
			zap.Error(err),
			zap.String("domain", domain),
		)
		return nil, fmt.Errorf("find tenant by domain %s: %w", domain, err)
	}

	return tenant, nil
}

func (r *tenantRepository) FindByAPIKeyID(ctx context.Context, keyID string) (*entity.Tenant, error) {
	query := `
		SELECT ` + tenantColumns + `
		FROM tenants
		WHERE api_key_id = $1
	`

	tenant, err := r.scanTenant(r.db.QueryRow(ctx, query, keyID))
	if err != nil {
		r.log.Error("Failed to find tenant by API key ID",
			zap.Error(err),
			zap.String("api_key_id", keyID),
		)
		return nil, fmt.Errorf("find tenant by API key ID %s: %w", keyID, err)
	}

	return tenant, nil
}

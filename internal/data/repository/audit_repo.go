package repository

import (
	"context"
	"fmt"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuditFilter narrows the audit log listing. Search matches action and
// resource_type, case-insensitive.
type AuditFilter struct {
	Search     string
	ResourceID *uuid.UUID
	ActorID    *uuid.UUID
}

type AuditRepository interface {
	// Create appends one entry. Entries are never updated or deleted.
	Create(ctx context.Context, entry *entity.AuditLogEntry) error
	List(ctx context.Context, tenantID uuid.UUID, filter AuditFilter, limit, offset int) ([]*entity.AuditLogEntry, error)
	Count(ctx context.Context, tenantID uuid.UUID, filter AuditFilter) (int64, error)
}

type auditRepository struct {
	db  database.Executor
	log *zap.Logger
}

func NewAuditRepository(db database.Executor, log *zap.Logger) AuditRepository {
	return &auditRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit")),
	}
}

func (r *auditRepository) Create(ctx context.Context, entry *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (id, tenant_id, user_id, action, resource_type,
		                        resource_id, changes, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.TenantID,
		entry.UserID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Changes,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create audit log entry",
			zap.Error(err),
			zap.String("action", entry.Action),
			zap.String("resource_id", entry.ResourceID.String()),
		)
		return fmt.Errorf("create audit entry %s: %w", entry.Action, err)
	}

	return nil
}

func (r *auditRepository) List(ctx context.Context, tenantID uuid.UUID, filter AuditFilter, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, tenant_id, user_id, action, resource_type, resource_id,
		       changes, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		  AND ($2 = '' OR action ILIKE '%' || $2 || '%' OR resource_type ILIKE '%' || $2 || '%')
		  AND ($3::uuid IS NULL OR resource_id = $3)
		  AND ($4::uuid IS NULL OR user_id = $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`

	rows, err := r.db.Query(ctx, query, tenantID, filter.Search, filter.ResourceID, filter.ActorID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list audit log entries",
			zap.Error(err),
			zap.String("tenant_id", tenantID.String()),
		)
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditLogEntry
	for rows.Next() {
		var entry entity.AuditLogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&entry.UserID,
			&entry.Action,
			&entry.ResourceType,
			&entry.ResourceID,
			&entry.Changes,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan audit log row", zap.Error(err))
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}

	return entries, nil
}

func (r *auditRepository) Count(ctx context.Context, tenantID uuid.UUID, filter AuditFilter) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM audit_logs
		WHERE tenant_id = $1
		  AND ($2 = '' OR action ILIKE '%' || $2 || '%' OR resource_type ILIKE '%' || $2 || '%')
		  AND ($3::uuid IS NULL OR resource_id = $3)
		  AND ($4::uuid IS NULL OR user_id = $4)
	`

	var count int64
	err := r.db.QueryRow(ctx, query, tenantID, filter.Search, filter.ResourceID, filter.ActorID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count audit log entries",
			zap.Error(err),
			zap.String("tenant_id", tenantID.String()),
		)
		return 0, fmt.Errorf("count audit entries: %w", err)
	}

	return count, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/dto/request"
	"marketplace-booking/internal/dto/response"
	"marketplace-booking/pkg/apperr"
	"marketplace-booking/pkg/metrics"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditService interface {
	// Record appends one audit entry for a successful mutating action.
	// Best-effort: a failed write is logged and counted, never returned,
	// so it cannot undo the action it describes.
	Record(ctx context.Context, action, resourceType string, resourceID uuid.UUID, changes map[string]any)

	List(ctx context.Context, req *request.ListAuditLogRequest) (*response.PaginatedResponse[response.AuditLogResponse], error)
}

type auditService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAuditService(repo *repository.Repository, log *zap.Logger) AuditService {
	return &auditService{
		repo: repo,
		log:  log.With(zap.String("service", "audit")),
	}
}

func (s *auditService) Record(ctx context.Context, action, resourceType string, resourceID uuid.UUID, changes map[string]any) {
	tenantID, ok := utils.GetTenantIDFromContext(ctx)
	if !ok {
		s.log.Warn("Audit entry dropped: no tenant in context",
			zap.String("action", action),
			zap.String("resource_id", resourceID.String()),
		)
		metrics.AuditWriteFailures.Inc()
		return
	}

	entry := &entity.AuditLogEntry{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		TenantID:     tenantID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Changes:      changes,
	}

	if actorID, ok := actorFrom(ctx); ok {
		entry.UserID = &actorID
	}

	client := utils.GetClientFromContext(ctx)
	if client.IPAddress != "" {
		entry.IPAddress = &client.IPAddress
	}
	if client.UserAgent != "" {
		entry.UserAgent = &client.UserAgent
	}

	if err := s.repo.Audit.Create(ctx, entry); err != nil {
		s.log.Warn("Failed to write audit entry",
			zap.Error(err),
			zap.String("action", action),
			zap.String("resource_id", resourceID.String()),
		)
		metrics.AuditWriteFailures.Inc()
	}
}

func (s *auditService) List(ctx context.Context, req *request.ListAuditLogRequest) (*response.PaginatedResponse[response.AuditLogResponse], error) {
	tenantID, err := tenantFrom(ctx)
	if err != nil {
		return nil, err
	}

	if !roleFrom(ctx).IsAdmin() {
		return nil, apperr.Authorization("admin_required", "audit log is admin only")
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("invalid_filter", utils.FormatValidationErrors(errs))
	}

	filter := repository.AuditFilter{Search: req.Search}
	if req.ResourceID != nil {
		resourceID, err := uuid.Parse(*req.ResourceID)
		if err != nil {
			return nil, apperr.Validation("invalid_resource_id", "resource_id must be a UUID")
		}
		filter.ResourceID = &resourceID
	}
	if req.ActorID != nil {
		actorID, err := uuid.Parse(*req.ActorID)
		if err != nil {
			return nil, apperr.Validation("invalid_actor_id", "actor_id must be a UUID")
		}
		filter.ActorID = &actorID
	}

	entries, err := s.repo.Audit.List(ctx, tenantID, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list audit log", zap.Error(err))
		return nil, apperr.Dependency("list audit log", fmt.Errorf("list audit log: %w", err))
	}

	total, err := s.repo.Audit.Count(ctx, tenantID, filter)
	if err != nil {
		s.log.Error("Failed to count audit log", zap.Error(err))
		return nil, apperr.Dependency("count audit log", fmt.Errorf("count audit log: %w", err))
	}

	entryResponses := make([]response.AuditLogResponse, len(entries))
	for i, entry := range entries {
		entryResponses[i] = response.AuditLogToResponse(entry)
	}

	return response.NewPaginatedResponse(entryResponses, req.Page, req.Limit(), total), nil
}

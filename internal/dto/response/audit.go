package response

import (
	"time"

	"marketplace-booking/internal/data/entity"
)

type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       *string        `json:"user_id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Changes      map[string]any `json:"changes,omitempty"`
	IPAddress    *string        `json:"ip_address,omitempty"`
	UserAgent    *string        `json:"user_agent,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func AuditLogToResponse(entry *entity.AuditLogEntry) AuditLogResponse {
	resp := AuditLogResponse{
		ID:           entry.ID.String(),
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID.String(),
		Changes:      entry.Changes,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		CreatedAt:    entry.CreatedAt,
	}

	if entry.UserID != nil {
		userID := entry.UserID.String()
		resp.UserID = &userID
	}

	return resp
}

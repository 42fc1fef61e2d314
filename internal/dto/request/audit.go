package request

type ListAuditLogRequest struct {
	PaginatedRequest
	Search     string  `json:"search"`
	ResourceID *string `json:"resource_id,omitempty" validate:"omitempty,uuid4"`
	ActorID    *string `json:"actor_id,omitempty" validate:"omitempty,uuid4"`
}

package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	TenantIDKey contextKey = "tenant_id"
	UserIDKey   contextKey = "user_id"
	RoleKey     contextKey = "role"
	ClientKey   contextKey = "client"
)

// ClientInfo carries the request origin for audit records.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

func SetTenantContext(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID.String())
}

func GetTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantVal := ctx.Value(TenantIDKey)
	if tenantVal == nil {
		return uuid.Nil, false
	}

	tenantStr, ok := tenantVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	tenantID, err := uuid.Parse(tenantStr)
	if err != nil {
		return uuid.Nil, false
	}

	return tenantID, true
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

func SetClientContext(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, ClientKey, info)
}

func GetClientFromContext(ctx context.Context) ClientInfo {
	clientVal := ctx.Value(ClientKey)
	if clientVal == nil {
		return ClientInfo{}
	}

	info, ok := clientVal.(ClientInfo)
	if !ok {
		return ClientInfo{}
	}

	return info
}

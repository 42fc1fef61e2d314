package middleware

import (
	"net/http"
	"strings"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate resolves an optional bearer token into a user identity.
// Requests without a token pass through as guests; a token that is
// present but invalid is rejected rather than silently downgraded.
func Authenticate(sessions repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Session lookup failed", zap.Error(err))
				utils.ResponseError(w, http.StatusInternalServerError, "dependency_failure", "Internal server error", nil)
				return
			}
			if session == nil {
				utils.ResponseError(w, http.StatusUnauthorized, "invalid_session", "Invalid or expired session", nil)
				return
			}

			// A session from one tenant must not open doors in another.
			tenantID, ok := utils.GetTenantIDFromContext(r.Context())
			if !ok || session.TenantID != tenantID {
				utils.ResponseError(w, http.StatusUnauthorized, "invalid_session", "Invalid or expired session", nil)
				return
			}

			ctx := utils.SetUserContext(r.Context(), session.UserID, string(session.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects guests.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
				utils.ResponseError(w, http.StatusUnauthorized, "authentication_required", "Authentication required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects authenticated users whose role is not listed.
func RequireRole(roles ...entity.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[entity.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseError(w, http.StatusUnauthorized, "authentication_required", "Authentication required", nil)
				return
			}
			if _, ok := allowed[entity.UserRole(role)]; !ok {
				utils.ResponseError(w, http.StatusForbidden, "role_forbidden", "Insufficient permissions", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

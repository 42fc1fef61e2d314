package middleware

import (
	"net"
	"net/http"
	"strings"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Tenant resolves the tenant for every request, either from the request
// host or from an X-Api-Key header of the form pk_<keyID>_<secret>. An
// unknown or inactive tenant gets a 404 so probing cannot distinguish
// "wrong key" from "no such tenant".
func Tenant(tenants repository.TenantRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenant := resolveTenant(r, tenants, logger)
			if tenant == nil || !tenant.IsActive {
				utils.ResponseError(w, http.StatusNotFound, "tenant_not_found", "Tenant not found", nil)
				return
			}

			ctx := utils.SetTenantContext(r.Context(), tenant.ID)
			ctx = utils.SetClientContext(ctx, utils.ClientInfo{
				IPAddress: clientIP(r),
				UserAgent: r.UserAgent(),
			})

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveTenant(r *http.Request, tenants repository.TenantRepository, logger *zap.Logger) *entity.Tenant {
	if apiKey := r.Header.Get("X-Api-Key"); apiKey != "" {
		return tenantByAPIKey(r, apiKey, tenants, logger)
	}

	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	tenant, err := tenants.FindByDomain(r.Context(), host)
	if err != nil {
		logger.Error("Tenant lookup by domain failed", zap.Error(err), zap.String("host", host))
		return nil
	}
	return tenant
}

func tenantByAPIKey(r *http.Request, apiKey string, tenants repository.TenantRepository, logger *zap.Logger) *entity.Tenant {
	parts := strings.SplitN(apiKey, "_", 3)
	if len(parts) != 3 || parts[0] != "pk" {
		return nil
	}
	keyID, secret := parts[1], parts[2]

	tenant, err := tenants.FindByAPIKeyID(r.Context(), keyID)
	if err != nil {
		logger.Error("Tenant lookup by API key failed", zap.Error(err))
		return nil
	}
	if tenant == nil {
		return nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.APIKeyHash), []byte(secret)); err != nil {
		logger.Warn("API key secret mismatch", zap.String("key_id", keyID))
		return nil
	}
	return tenant
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

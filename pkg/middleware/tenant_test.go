package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type stubTenantRepo struct {
	byDomain map[string]*entity.Tenant
	byKeyID  map[string]*entity.Tenant
}

func (s *stubTenantRepo) FindByDomain(ctx context.Context, domain string) (*entity.Tenant, error) {
	return s.byDomain[domain], nil
}

func (s *stubTenantRepo) FindByAPIKeyID(ctx context.Context, keyID string) (*entity.Tenant, error) {
	return s.byKeyID[keyID], nil
}

func newTenant(domain, keyID, secret string, active bool) *entity.Tenant {
	hash, _ := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	return &entity.Tenant{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:       "Acme",
		Domain:     domain,
		APIKeyID:   keyID,
		APIKeyHash: string(hash),
		IsActive:   active,
	}
}

func tenantEcho(t *testing.T, captured *uuid.UUID) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := utils.GetTenantIDFromContext(r.Context())
		require.True(t, ok)
		*captured = tenantID
		w.WriteHeader(http.StatusOK)
	})
}

func TestTenantResolvedByHost(t *testing.T) {
	tenant := newTenant("acme.example.com", "k1", "secret", true)
	repo := &stubTenantRepo{byDomain: map[string]*entity.Tenant{tenant.Domain: tenant}}

	var captured uuid.UUID
	handler := Tenant(repo, zap.NewNop())(tenantEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "http://acme.example.com:8080/api/bookings/guest", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tenant.ID, captured)
}

func TestTenantUnknownHostGets404(t *testing.T) {
	repo := &stubTenantRepo{}

	handler := Tenant(repo, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "http://nobody.example.com/api/bookings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantInactiveGets404(t *testing.T) {
	tenant := newTenant("old.example.com", "k1", "secret", false)
	repo := &stubTenantRepo{byDomain: map[string]*entity.Tenant{tenant.Domain: tenant}}

	handler := Tenant(repo, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "http://old.example.com/api/bookings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantResolvedByAPIKey(t *testing.T) {
	tenant := newTenant("acme.example.com", "k1", "s3cr3t", true)
	repo := &stubTenantRepo{byKeyID: map[string]*entity.Tenant{"k1": tenant}}

	var captured uuid.UUID
	handler := Tenant(repo, zap.NewNop())(tenantEcho(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "http://whatever.example.com/api/bookings", nil)
	req.Header.Set("X-Api-Key", "pk_k1_s3cr3t")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tenant.ID, captured)
}

func TestTenantAPIKeyWrongSecretGets404(t *testing.T) {
	tenant := newTenant("acme.example.com", "k1", "s3cr3t", true)
	repo := &stubTenantRepo{byKeyID: map[string]*entity.Tenant{"k1": tenant}}

	handler := Tenant(repo, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "http://whatever.example.com/api/bookings", nil)
	req.Header.Set("X-Api-Key", "pk_k1_wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantMalformedAPIKeyGets404(t *testing.T) {
	repo := &stubTenantRepo{}

	handler := Tenant(repo, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "http://whatever.example.com/api/bookings", nil)
	req.Header.Set("X-Api-Key", "not-a-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

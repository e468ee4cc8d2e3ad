package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/HMB-research/open-accounting/internal/models"
)

func TestAuthenticate(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour)
	handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(claims.Username))
	}))

	t.Run("valid token", func(t *testing.T) {
		token, _ := svc.GenerateAccessToken("jdoe", []models.Role{models.RoleAdmin})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jdoe", w.Body.String())
	})

	t.Run("missing authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid authorization format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "InvalidFormat")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("case insensitive bearer", func(t *testing.T) {
		token, _ := svc.GenerateAccessToken("jdoe", nil)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed role", func(t *testing.T) {
		middleware := RequireRole(models.RoleAdmin, models.RoleHR)(handler)
		claims := &Claims{Username: "jdoe", Roles: []models.Role{models.RoleAdmin}}
		ctx := WithClaims(httptest.NewRequest(http.MethodGet, "/test", nil).Context(), claims)

		req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		middleware.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forbidden role", func(t *testing.T) {
		middleware := RequireRole(models.RoleAdmin)(handler)
		claims := &Claims{Username: "jdoe", Roles: []models.Role{models.RoleEmployee}}
		ctx := WithClaims(httptest.NewRequest(http.MethodGet, "/test", nil).Context(), claims)

		req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		middleware.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("without claims", func(t *testing.T) {
		middleware := RequireRole(models.RoleAdmin)(handler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		middleware.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireMinRole(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("meets minimum", func(t *testing.T) {
		middleware := RequireMinRole(models.RoleManager)(handler)
		claims := &Claims{Username: "jdoe", Roles: []models.Role{models.RoleAdmin}}
		ctx := WithClaims(httptest.NewRequest(http.MethodGet, "/test", nil).Context(), claims)

		req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		middleware.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("below minimum", func(t *testing.T) {
		middleware := RequireMinRole(models.RoleManager)(handler)
		claims := &Claims{Username: "jdoe", Roles: []models.Role{models.RoleUser}}
		ctx := WithClaims(httptest.NewRequest(http.MethodGet, "/test", nil).Context(), claims)

		req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
		w := httptest.NewRecorder()

		middleware.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

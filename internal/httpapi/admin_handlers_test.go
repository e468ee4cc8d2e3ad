package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HMB-research/open-accounting/internal/models"
)

func TestAdmin_SetUserRolesAndEnabled_RequiresAdmin(t *testing.T) {
	router, _, tokens := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "newhire", Email: "newhire@example.com", Password: "a reasonably long passphrase",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	u, _ := env.Data.(map[string]interface{})
	userID, _ := u["id"].(string)
	require.NotEmpty(t, userID)

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/users/"+userID+"/roles",
		tokens.bearerFor("hrlead", models.RoleHR), setRolesRequest{Roles: []models.Role{models.RoleHR}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/users/"+userID+"/roles",
		tokens.bearerFor("root", models.RoleAdmin), setRolesRequest{Roles: []models.Role{models.RoleHR}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decodeEnvelope(t, w)
	updated, _ := env.Data.(map[string]interface{})
	roles, _ := updated["roles"].([]interface{})
	require.Len(t, roles, 1)
	assert.Equal(t, "HR", roles[0])

	w = doJSON(t, router, http.MethodPut, "/api/v1/admin/users/"+userID+"/enabled",
		tokens.bearerFor("root", models.RoleAdmin), setEnabledRequest{Enabled: false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decodeEnvelope(t, w)
	disabled, _ := env.Data.(map[string]interface{})
	assert.Equal(t, false, disabled["enabled"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Username: "newhire", Password: "a reasonably long passphrase",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_ListAuditLogs_RequiresAdmin(t *testing.T) {
	router, _, tokens := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/admin/audit-logs", tokens.bearerFor("hrlead", models.RoleHR), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/audit-logs", tokens.bearerFor("root", models.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

func newTestServer(t *testing.T) (*chi.Mux, *Handlers, *testTokens) {
	t.Helper()
	h, tokens, _ := newTestRouter()
	router := NewRouter(h, RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}})
	return router, h, tokens
}

func newTestServerWithSeams(t *testing.T) (*chi.Mux, *Handlers, *testTokens, *testSeams) {
	t.Helper()
	h, tokens, seams := newTestRouter()
	router := NewRouter(h, RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}})
	return router, h, tokens, seams
}

func doJSON(t *testing.T, router http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apierror.Envelope {
	t.Helper()
	var env apierror.Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func TestRegisterLoginMe_FullFlow(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "asha", Email: "asha@example.com", Password: "correct horse battery staple",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Username: "asha", Password: "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	require.True(t, env.Success)

	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	profile, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "asha", profile["username"])
}

func TestLogin_WrongPassword_Unauthorized(t *testing.T) {
	router, _, _ := newTestServer(t)

	doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "asha", Email: "asha@example.com", Password: "correct horse battery staple",
	})

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Username: "asha", Password: "wrong password entirely",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoute_NoBearer_Unauthenticated(t *testing.T) {
	router, _, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateEmployee_RoleGating(t *testing.T) {
	router, _, tokens := newTestServer(t)

	req := models.CreateEmployeeRequest{
		FirstName:      "Priya",
		LastName:       "Nair",
		OfficialEmail:  "priya@example.com",
		EmploymentType: models.EmploymentFullTime,
		JoinDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CTCAnnual:      models.NewDecimalFromFloat(600000),
		TDSAnnual:      models.DecimalZero(),
	}

	// An EMPLOYEE role may not create employees.
	w := doJSON(t, router, http.MethodPost, "/api/v1/employees", tokens.bearerFor("bob", models.RoleEmployee), req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// HR may.
	w = doJSON(t, router, http.MethodPost, "/api/v1/employees", tokens.bearerFor("hrlead", models.RoleHR), req)
	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	emp, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Priya", emp["first_name"])
	assert.Equal(t, "ACTIVE", emp["status"])
}

func TestListEmployees_AnyAuthenticatedRole(t *testing.T) {
	router, _, tokens := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/api/v1/employees", tokens.bearerFor("bob", models.RoleEmployee), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	router, _, tokens := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/admin/users", tokens.bearerFor("hrlead", models.RoleHR), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/admin/users", tokens.bearerFor("root", models.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGeneratePayRun_RequiresAdmin_EvenWithoutPayRunsWired(t *testing.T) {
	router, _, tokens := newTestServer(t)

	// PayRuns is left nil in newTestRouter; the permission check must
	// reject non-admins before the handler ever touches it.
	w := doJSON(t, router, http.MethodPost, "/api/v1/payruns/generate", tokens.bearerFor("hrlead", models.RoleHR), models.Period{Month: 1, Year: 2026})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAdvance_RequiresHRorAdmin(t *testing.T) {
	router, _, tokens := newTestServer(t)
	req := models.CreateAdvanceRequest{
		EmployeeID:      "emp-1",
		AdvancePeriod:   models.Period{Month: 1, Year: 2026},
		PaidAmount:      models.NewDecimalFromFloat(1000),
		DeductionPeriod: models.Period{Month: 2, Year: 2026},
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/advances", tokens.bearerFor("bob", models.RoleManager), req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/advances", tokens.bearerFor("hrlead", models.RoleHR), req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

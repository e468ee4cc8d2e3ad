package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HMB-research/open-accounting/internal/models"
)

func TestLoan_CreateListGet_RequiresHRorAdmin(t *testing.T) {
	router, _, tokens := newTestServer(t)

	req := models.CreateLoanRequest{
		EmployeeID: "emp-1", Principal: models.NewDecimalFromFloat(60000),
		AnnualInterestRate: models.NewDecimalFromFloat(10), EMICount: 6,
		Start: models.Period{Month: 1, Year: 2026},
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/loans", tokens.bearerFor("bob", models.RoleManager), req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/loans", tokens.bearerFor("hrlead", models.RoleHR), req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	l, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	id, _ := l["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "ACTIVE", l["status"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/loans/"+id, tokens.bearerFor("bob", models.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/loans/employee/emp-1", tokens.bearerFor("bob", models.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decodeEnvelope(t, w)
	list, ok := env.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestLoan_Cancel_RequiresHRorAdmin(t *testing.T) {
	router, _, tokens := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/loans", tokens.bearerFor("hrlead", models.RoleHR), models.CreateLoanRequest{
		EmployeeID: "emp-2", Principal: models.NewDecimalFromFloat(24000),
		AnnualInterestRate: models.NewDecimalFromFloat(0), EMICount: 4,
		Start: models.Period{Month: 1, Year: 2026},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	l, _ := env.Data.(map[string]interface{})
	id, _ := l["id"].(string)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/loans/"+id, tokens.bearerFor("bob", models.RoleManager), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/loans/"+id, tokens.bearerFor("hrlead", models.RoleHR), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decodeEnvelope(t, w)
	cancelled, _ := env.Data.(map[string]interface{})
	assert.Equal(t, "CANCELLED", cancelled["status"])
}

package httpapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HMB-research/open-accounting/internal/models"
)

// registerAndLink creates a user through the HTTP API and stamps its
// EmployeeID in the fake identity store, so the leave-ownership checks in
// canAccessLeave/rejectSelfApproval resolve to a real employee.
func registerAndLink(t *testing.T, router http.Handler, seams *testSeams, username, employeeID string, roles ...models.Role) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: username, Email: username + "@example.com", Password: "a reasonably long passphrase", Roles: roles,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	seams.Identity.linkEmployee(username, employeeID)
}

func newLeaveTestServer(t *testing.T) (http.Handler, *testTokens, *testSeams) {
	t.Helper()
	h, tokens, seams := newTestRouter()
	seams.Leaves.seedLeaveType(&models.LeaveType{
		Base:   models.Base{ID: "lt-casual"},
		Code:   "CASUAL",
		Name:   "Casual leave",
		IsPaid: false, IsActive: true,
	})
	router := NewRouter(h, RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}})
	return router, tokens, seams
}

func createLeaveRequest(t *testing.T, router http.Handler, bearer, employeeID string) map[string]interface{} {
	t.Helper()
	req := models.CreateLeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: "lt-casual",
		StartDate:   time.Now().Add(48 * time.Hour),
		EndDate:     time.Now().Add(72 * time.Hour),
		Reason:      "a family function that requires travel",
	}
	w := doJSON(t, router, http.MethodPost, "/api/v1/leaves", bearer, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	lr, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	return lr
}

func TestLeave_TwoStageApprovalFlow(t *testing.T) {
	router, tokens, seams := newLeaveTestServer(t)

	registerAndLink(t, router, seams, "priya", "emp-priya", models.RoleEmployee)
	registerAndLink(t, router, seams, "manmgr", "emp-manager", models.RoleManager)
	registerAndLink(t, router, seams, "root", "emp-admin", models.RoleAdmin)

	lr := createLeaveRequest(t, router, tokens.bearerFor("priya", models.RoleEmployee), "emp-priya")
	id, _ := lr["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "PENDING", lr["status"])

	w := doJSON(t, router, http.MethodPut, "/api/v1/leaves/"+id+"/manager-approve",
		tokens.bearerFor("manmgr", models.RoleManager), models.ApproveLeaveRequest{Comments: "approved, coverage arranged"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	approved, _ := env.Data.(map[string]interface{})
	assert.Equal(t, "MANAGER_APPROVED", approved["status"])

	w = doJSON(t, router, http.MethodPut, "/api/v1/leaves/"+id+"/admin-approve",
		tokens.bearerFor("root", models.RoleAdmin), models.ApproveLeaveRequest{Comments: "final sign-off granted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decodeEnvelope(t, w)
	final, _ := env.Data.(map[string]interface{})
	assert.Equal(t, "ADMIN_APPROVED", final["status"])
}

func TestLeave_SelfApprovalForbidden(t *testing.T) {
	router, tokens, seams := newLeaveTestServer(t)

	// priya holds the MANAGER role herself but may not approve her own leave.
	registerAndLink(t, router, seams, "priya", "emp-priya", models.RoleEmployee, models.RoleManager)

	lr := createLeaveRequest(t, router, tokens.bearerFor("priya", models.RoleEmployee, models.RoleManager), "emp-priya")
	id, _ := lr["id"].(string)

	w := doJSON(t, router, http.MethodPut, "/api/v1/leaves/"+id+"/manager-approve",
		tokens.bearerFor("priya", models.RoleEmployee, models.RoleManager), models.ApproveLeaveRequest{Comments: "approving my own leave"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeave_OwnerCanViewButNotOthers(t *testing.T) {
	router, tokens, seams := newLeaveTestServer(t)
	registerAndLink(t, router, seams, "priya", "emp-priya", models.RoleEmployee)
	registerAndLink(t, router, seams, "bystander", "emp-other", models.RoleEmployee)

	lr := createLeaveRequest(t, router, tokens.bearerFor("priya", models.RoleEmployee), "emp-priya")
	id, _ := lr["id"].(string)

	w := doJSON(t, router, http.MethodGet, "/api/v1/leaves/"+id, tokens.bearerFor("priya", models.RoleEmployee), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/leaves/"+id, tokens.bearerFor("bystander", models.RoleEmployee), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeave_RejectAndCancel(t *testing.T) {
	router, tokens, seams := newLeaveTestServer(t)
	registerAndLink(t, router, seams, "priya", "emp-priya", models.RoleEmployee)
	registerAndLink(t, router, seams, "manmgr", "emp-manager", models.RoleManager)

	rejected := createLeaveRequest(t, router, tokens.bearerFor("priya", models.RoleEmployee), "emp-priya")
	w := doJSON(t, router, http.MethodPut, "/api/v1/leaves/"+rejected["id"].(string)+"/reject",
		tokens.bearerFor("manmgr", models.RoleManager), models.RejectLeaveRequest{Reason: "conflicts with the release freeze"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	body, _ := env.Data.(map[string]interface{})
	assert.Equal(t, "REJECTED", body["status"])

	cancelled := createLeaveRequest(t, router, tokens.bearerFor("priya", models.RoleEmployee), "emp-priya")
	w = doJSON(t, router, http.MethodPut, "/api/v1/leaves/"+cancelled["id"].(string)+"/cancel",
		tokens.bearerFor("priya", models.RoleEmployee), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decodeEnvelope(t, w)
	body, _ = env.Data.(map[string]interface{})
	assert.Equal(t, "CANCELLED", body["status"])
}

package auth

import "github.com/HMB-research/open-accounting/internal/models"

// CanManageEmployees reports whether claims may create, update, or exit
// employee records (§6 route map: ADMIN, HR).
func CanManageEmployees(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin) || claims.HasRole(models.RoleHR)
}

// CanManageDesignations reports whether claims may create or update
// designations (§6 route map: ADMIN, HR).
func CanManageDesignations(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin) || claims.HasRole(models.RoleHR)
}

// CanRecordAttendance reports whether claims may upsert or read attendance
// records for employees (§6 route map: ADMIN, HR).
func CanRecordAttendance(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin) || claims.HasRole(models.RoleHR)
}

// CanApproveLeaveAsManager reports whether claims may act as the manager
// stage of the two-stage leave approval workflow (§4.5).
func CanApproveLeaveAsManager(claims *Claims) bool {
	return claims.HasRole(models.RoleManager) || claims.HasRole(models.RoleAdmin)
}

// CanApproveLeaveAsAdmin reports whether claims may act as the admin stage
// of the two-stage leave approval workflow (§4.5).
func CanApproveLeaveAsAdmin(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin) || claims.HasRole(models.RoleHR)
}

// CanApproveOwnLeave reports whether self-approval is attempted: the leave
// workflow never allows an employee to approve their own request, at either
// stage, regardless of role (§4.5 invariant).
func CanApproveOwnLeave(claims *Claims, leave *models.LeaveRequest, employeeIDForUsername string) bool {
	return employeeIDForUsername == leave.EmployeeID
}

// CanGeneratePayRun reports whether claims may trigger pay-run generation
// (§6 route map: ADMIN only).
func CanGeneratePayRun(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin)
}

// CanApproveAdvance reports whether claims may create a salary advance
// (§6 route map: ADMIN, HR).
func CanApproveAdvance(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin) || claims.HasRole(models.RoleHR)
}

// CanApproveLoan reports whether claims may create or cancel an
// installment loan (§6 route map: ADMIN, HR).
func CanApproveLoan(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin) || claims.HasRole(models.RoleHR)
}

// CanViewAuditLog reports whether claims may read the audit log (§6 route
// map: ADMIN only).
func CanViewAuditLog(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin)
}

// CanManageUsers reports whether claims may administer other users'
// accounts and role assignments (§6 route map: ADMIN only).
func CanManageUsers(claims *Claims) bool {
	return claims.HasRole(models.RoleAdmin)
}

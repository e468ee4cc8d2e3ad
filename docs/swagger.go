// Package docs holds the swaggo annotations the swag CLI reads to produce
// the OpenAPI document served at /swagger.
package docs

// @title HR Back Office API
// @version 1.0
// @description Back-office HR management service: employees, compensation,
// @description attendance, salary advances, installment loans, pay-run
// @description generation, and the two-stage leave approval workflow.

// @contact.name Open Accounting Team
// @contact.url https://github.com/HMB-research/open-accounting

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token authentication. Format: "Bearer {token}"

// @tag.name Auth
// @tag.description Registration, login, and token refresh

// @tag.name Employees
// @tag.description Employee records and compensation

// @tag.name Designations
// @tag.description The designation catalog

// @tag.name Attendance
// @tag.description Monthly attendance summaries

// @tag.name Advances
// @tag.description Salary advances

// @tag.name Loans
// @tag.description Installment loans

// @tag.name Leave
// @tag.description The two-stage leave approval workflow

// @tag.name PayRuns
// @tag.description Monthly pay-run generation and export

// @tag.name Admin
// @tag.description Audit log and user/role administration

package httpapi

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/HMB-research/open-accounting/internal/advance"
	"github.com/HMB-research/open-accounting/internal/attendance"
	"github.com/HMB-research/open-accounting/internal/audit"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/designation"
	"github.com/HMB-research/open-accounting/internal/employee"
	"github.com/HMB-research/open-accounting/internal/identity"
	"github.com/HMB-research/open-accounting/internal/leave"
	"github.com/HMB-research/open-accounting/internal/loan"
	"github.com/HMB-research/open-accounting/internal/models"
	"github.com/HMB-research/open-accounting/internal/payroll"
)

// Fakes below satisfy each domain package's Repository interface entirely
// in-memory, the same pattern each service package's own unit tests use.

type fakeEmployeeRepo struct {
	byID    map[string]*models.Employee
	byEmail map[string]*models.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{byID: map[string]*models.Employee{}, byEmail: map[string]*models.Employee{}}
}
func (f *fakeEmployeeRepo) Create(_ context.Context, e *models.Employee) error {
	cp := *e
	f.byID[e.ID] = &cp
	f.byEmail[e.OfficialEmail] = &cp
	return nil
}
func (f *fakeEmployeeRepo) Get(_ context.Context, id string) (*models.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, employee.ErrNotFound
	}
	cp := *e
	return &cp, nil
}
func (f *fakeEmployeeRepo) GetByOfficialEmail(_ context.Context, email string) (*models.Employee, error) {
	e, ok := f.byEmail[email]
	if !ok {
		return nil, employee.ErrNotFound
	}
	cp := *e
	return &cp, nil
}
func (f *fakeEmployeeRepo) Update(_ context.Context, e *models.Employee) error {
	cp := *e
	f.byID[e.ID] = &cp
	f.byEmail[e.OfficialEmail] = &cp
	return nil
}
func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range f.byID {
		if e.Status == models.EmployeeActive {
			out = append(out, *e)
		}
	}
	return out, nil
}
func (f *fakeEmployeeRepo) List(_ context.Context) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range f.byID {
		out = append(out, *e)
	}
	return out, nil
}
func (f *fakeEmployeeRepo) CountByDesignation(_ context.Context, designationID string) (int, error) {
	n := 0
	for _, e := range f.byID {
		if e.DesignationID == designationID {
			n++
		}
	}
	return n, nil
}
func (f *fakeEmployeeRepo) Count(_ context.Context) (int, error) { return len(f.byID), nil }

type fakeDesignationRepo struct {
	byID    map[string]*models.Designation
	byTitle map[string]*models.Designation
}

func newFakeDesignationRepo() *fakeDesignationRepo {
	return &fakeDesignationRepo{byID: map[string]*models.Designation{}, byTitle: map[string]*models.Designation{}}
}
func (f *fakeDesignationRepo) Create(_ context.Context, d *models.Designation) error {
	cp := *d
	f.byID[d.ID] = &cp
	f.byTitle[d.Title] = &cp
	return nil
}
func (f *fakeDesignationRepo) Get(_ context.Context, id string) (*models.Designation, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, designation.ErrNotFound
	}
	cp := *d
	return &cp, nil
}
func (f *fakeDesignationRepo) GetByTitle(_ context.Context, title string) (*models.Designation, error) {
	d, ok := f.byTitle[title]
	if !ok {
		return nil, designation.ErrNotFound
	}
	cp := *d
	return &cp, nil
}
func (f *fakeDesignationRepo) Update(_ context.Context, d *models.Designation) error {
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}
func (f *fakeDesignationRepo) Delete(_ context.Context, id string) error {
	d, ok := f.byID[id]
	if !ok {
		return designation.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byTitle, d.Title)
	return nil
}
func (f *fakeDesignationRepo) List(_ context.Context) ([]models.Designation, error) {
	var out []models.Designation
	for _, d := range f.byID {
		out = append(out, *d)
	}
	return out, nil
}

type fakeIdentityRepo struct {
	byID       map[string]*models.User
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		byID:       map[string]*models.User{},
		byUsername: map[string]*models.User{},
		byEmail:    map[string]*models.User{},
	}
}
func (f *fakeIdentityRepo) Create(_ context.Context, u *models.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	f.byUsername[u.Username] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}
func (f *fakeIdentityRepo) Get(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
func (f *fakeIdentityRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, identity.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
func (f *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, identity.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
func (f *fakeIdentityRepo) Update(_ context.Context, u *models.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	f.byUsername[u.Username] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}
func (f *fakeIdentityRepo) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

type fakeAdvanceRepo struct {
	advances map[string]*models.Advance
}

func newFakeAdvanceRepo() *fakeAdvanceRepo { return &fakeAdvanceRepo{advances: map[string]*models.Advance{}} }
func (f *fakeAdvanceRepo) Create(_ context.Context, a *models.Advance) error {
	cp := *a
	f.advances[a.ID] = &cp
	return nil
}
func (f *fakeAdvanceRepo) Get(_ context.Context, id string) (*models.Advance, error) {
	a, ok := f.advances[id]
	if !ok {
		return nil, advance.ErrNotFound
	}
	cp := *a
	return &cp, nil
}
func (f *fakeAdvanceRepo) Update(_ context.Context, a *models.Advance) error {
	cp := *a
	f.advances[a.ID] = &cp
	return nil
}
func (f *fakeAdvanceRepo) ListByEmployee(_ context.Context, employeeID string) ([]models.Advance, error) {
	var out []models.Advance
	for _, a := range f.advances {
		if a.EmployeeID == employeeID {
			out = append(out, *a)
		}
	}
	return out, nil
}
func (f *fakeAdvanceRepo) ListDueForPeriod(_ context.Context, employeeID string, period models.Period) ([]models.Advance, error) {
	var out []models.Advance
	for _, a := range f.advances {
		if a.EmployeeID == employeeID && a.DeductionPeriod.Equal(period) {
			out = append(out, *a)
		}
	}
	return out, nil
}
func (f *fakeAdvanceRepo) BeginTx(_ context.Context) (pgx.Tx, error) { return nil, nil }
func (f *fakeAdvanceRepo) WithTx(_ pgx.Tx) advance.Repository        { return f }

type fakeLoanRepo struct {
	loans map[string]*models.Loan
}

func newFakeLoanRepo() *fakeLoanRepo { return &fakeLoanRepo{loans: map[string]*models.Loan{}} }
func (f *fakeLoanRepo) Create(_ context.Context, l *models.Loan) error {
	cp := *l
	f.loans[l.ID] = &cp
	return nil
}
func (f *fakeLoanRepo) Get(_ context.Context, id string) (*models.Loan, error) {
	l, ok := f.loans[id]
	if !ok {
		return nil, loan.ErrNotFound
	}
	cp := *l
	return &cp, nil
}
func (f *fakeLoanRepo) Update(_ context.Context, l *models.Loan) error {
	cp := *l
	f.loans[l.ID] = &cp
	return nil
}
func (f *fakeLoanRepo) ListActiveForEmployee(_ context.Context, employeeID string, period models.Period) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range f.loans {
		if l.EmployeeID == employeeID && l.Status == models.LoanActive && !period.Before(l.Start) {
			out = append(out, *l)
		}
	}
	return out, nil
}
func (f *fakeLoanRepo) ListByEmployee(_ context.Context, employeeID string) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range f.loans {
		if l.EmployeeID == employeeID {
			out = append(out, *l)
		}
	}
	return out, nil
}
func (f *fakeLoanRepo) BeginTx(_ context.Context) (pgx.Tx, error) { return nil, nil }
func (f *fakeLoanRepo) WithTx(_ pgx.Tx) loan.Repository           { return f }

type fakeLeaveRepo struct {
	requests map[string]*models.LeaveRequest
	types    map[string]*models.LeaveType
	balances map[string]*models.LeaveBalance
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{
		requests: map[string]*models.LeaveRequest{},
		types:    map[string]*models.LeaveType{},
		balances: map[string]*models.LeaveBalance{},
	}
}
func (f *fakeLeaveRepo) Create(_ context.Context, lr *models.LeaveRequest) error {
	cp := *lr
	f.requests[lr.ID] = &cp
	return nil
}
func (f *fakeLeaveRepo) Get(_ context.Context, id string) (*models.LeaveRequest, error) {
	lr, ok := f.requests[id]
	if !ok {
		return nil, leave.ErrNotFound
	}
	cp := *lr
	return &cp, nil
}
func (f *fakeLeaveRepo) Update(_ context.Context, lr *models.LeaveRequest) error {
	cp := *lr
	f.requests[lr.ID] = &cp
	return nil
}
func (f *fakeLeaveRepo) ListByEmployee(_ context.Context, employeeID string) ([]models.LeaveRequest, error) {
	var out []models.LeaveRequest
	for _, lr := range f.requests {
		if lr.EmployeeID == employeeID {
			out = append(out, *lr)
		}
	}
	return out, nil
}
func (f *fakeLeaveRepo) ListApprovedOverlapping(_ context.Context, employeeID, start, end string) ([]models.LeaveRequest, error) {
	return nil, nil
}
func (f *fakeLeaveRepo) GetLeaveType(_ context.Context, id string) (*models.LeaveType, error) {
	lt, ok := f.types[id]
	if !ok {
		return nil, leave.ErrNotFound
	}
	cp := *lt
	return &cp, nil
}
func (f *fakeLeaveRepo) GetBalance(_ context.Context, employeeID, leaveTypeID string, year int) (*models.LeaveBalance, error) {
	return nil, leave.ErrNotFound
}
func (f *fakeLeaveRepo) UpdateBalance(_ context.Context, balance *models.LeaveBalance) error { return nil }
func (f *fakeLeaveRepo) CreateBalance(_ context.Context, balance *models.LeaveBalance) error { return nil }
func (f *fakeLeaveRepo) ListBalancesByYear(_ context.Context, year int) ([]models.LeaveBalance, error) {
	return nil, nil
}
func (f *fakeLeaveRepo) BeginTx(_ context.Context) (pgx.Tx, error) { return nil, nil }
func (f *fakeLeaveRepo) WithTx(_ pgx.Tx) leave.Repository         { return f }

type fakeAuditRepo struct {
	entries []models.AuditEntry
}

func (f *fakeAuditRepo) Insert(_ context.Context, e *models.AuditEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}
func (f *fakeAuditRepo) List(_ context.Context, filter models.AuditLogFilter) ([]models.AuditEntry, error) {
	return f.entries, nil
}

// newTestRouter builds the domain services against in-memory fakes, the
// same wiring cmd/api/main.go does minus the database, for NewRouter to
// mount behind chi.
// testSeams exposes the fakes backing a Handlers built by newTestRouter so
// tests can seed state (an employee's linked user, a leave type) that
// production provisions out-of-band and no HTTP route creates directly.
type testSeams struct {
	Audit    *fakeAuditRepo
	Identity *fakeIdentityRepo
	Leaves   *fakeLeaveRepo
}

func newTestRouter() (*Handlers, *testTokens, *testSeams) {
	params := payroll.DefaultParameters()

	employeeRepo := newFakeEmployeeRepo()
	employeeSvc := employee.NewService(employeeRepo, employee.DefaultUUIDGenerator{}, params)

	designationSvc := designation.NewService(newFakeDesignationRepo(), employeeSvc, designation.DefaultUUIDGenerator{})

	attendanceSvc := attendance.NewService(&fakeAttendanceRepo{records: map[string]*models.AttendanceRecord{}}, attendance.DefaultUUIDGenerator{})

	advanceSvc := advance.NewService(newFakeAdvanceRepo(), advance.DefaultUUIDGenerator{})

	loanSvc := loan.NewService(newFakeLoanRepo(), loan.DefaultUUIDGenerator{})

	leaveRepo := newFakeLeaveRepo()
	leaveSvc := leave.NewService(leaveRepo, leave.DefaultUUIDGenerator{})

	identityRepo := newFakeIdentityRepo()
	tokens := auth.NewTokenService("test-secret-key-at-least-32-bytes!!", time.Hour, 24*time.Hour)
	identitySvc := identity.NewService(identityRepo, tokens, identity.BcryptHasher{}, identity.DefaultUUIDGenerator{})

	auditRepo := &fakeAuditRepo{}
	recorder := audit.NewRecorder(auditRepo, audit.DefaultQueueCapacity)

	h := &Handlers{
		Employees:    employeeSvc,
		Designations: designationSvc,
		Attendance:   attendanceSvc,
		Advances:     advanceSvc,
		Loans:        loanSvc,
		Leaves:       leaveSvc,
		Identity:     identitySvc,
		Audit:        recorder,
		AuditLog:     auditRepo,
		Tokens:       tokens,
	}

	return h, &testTokens{tokens: tokens}, &testSeams{Audit: auditRepo, Identity: identityRepo, Leaves: leaveRepo}
}

// seedLeaveType inserts a leave type directly, standing in for the catalog a
// migration seeds in production.
func (f *fakeLeaveRepo) seedLeaveType(lt *models.LeaveType) {
	cp := *lt
	f.types[lt.ID] = &cp
}

// linkEmployee stamps a registered user's EmployeeID directly in the fake
// store, standing in for whatever out-of-band provisioning step associates a
// login with an employee record in production.
func (f *fakeIdentityRepo) linkEmployee(username, employeeID string) {
	u, ok := f.byUsername[username]
	if !ok {
		return
	}
	u.EmployeeID = employeeID
	f.byID[u.ID].EmployeeID = employeeID
	f.byEmail[u.Email].EmployeeID = employeeID
}

type testTokens struct {
	tokens *auth.TokenService
}

func (t *testTokens) bearerFor(username string, roles ...models.Role) string {
	tok, err := t.tokens.GenerateAccessToken(username, roles)
	if err != nil {
		panic(err)
	}
	return "Bearer " + tok
}

type fakeAttendanceRepo struct {
	records map[string]*models.AttendanceRecord
}

func attendanceKey(employeeID string, period models.Period) string {
	return employeeID + "|" + period.String()
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, a *models.AttendanceRecord) error {
	cp := *a
	f.records[attendanceKey(a.EmployeeID, a.Period)] = &cp
	return nil
}
func (f *fakeAttendanceRepo) Get(_ context.Context, employeeID string, period models.Period) (*models.AttendanceRecord, error) {
	a, ok := f.records[attendanceKey(employeeID, period)]
	if !ok {
		return nil, attendance.ErrNotFound
	}
	cp := *a
	return &cp, nil
}
func (f *fakeAttendanceRepo) MarkConsumed(_ context.Context, employeeID string, period models.Period) error {
	a, ok := f.records[attendanceKey(employeeID, period)]
	if !ok {
		return attendance.ErrNotFound
	}
	a.ConsumedByPayRun = true
	return nil
}
func (f *fakeAttendanceRepo) ListByPeriod(_ context.Context, period models.Period) ([]models.AttendanceRecord, error) {
	var out []models.AttendanceRecord
	for _, a := range f.records {
		if a.Period.Equal(period) {
			out = append(out, *a)
		}
	}
	return out, nil
}

// newRecorder is a small helper so test bodies read as one line per request.
func newRecorder() *httptest.ResponseRecorder { return httptest.NewRecorder() }

package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

// EmployeeSource is the payroll generator's view of the employee roster. It
// is a consumer-defined interface: internal/employee implements it without
// this package importing that one, keeping the dependency one-way.
type EmployeeSource interface {
	ListActive(ctx context.Context) ([]models.Employee, error)
}

// AttendanceSource resolves a single employee's attendance for a period.
type AttendanceSource interface {
	Get(ctx context.Context, employeeID string, period models.Period) (*models.AttendanceRecord, error)
	MarkConsumed(ctx context.Context, employeeID string, period models.Period) error
}

// LoanSource exposes the active loans a pay-run must service.
type LoanSource interface {
	ListActiveForEmployee(ctx context.Context, employeeID string, period models.Period) ([]models.Loan, error)
	RecordEMIPayment(ctx context.Context, loan *models.Loan) error
}

// AdvanceSource exposes the advances due for deduction in a given period.
type AdvanceSource interface {
	ListDueForPeriod(ctx context.Context, employeeID string, period models.Period) ([]models.Advance, error)
	RecordDeduction(ctx context.Context, advance *models.Advance, deducted decimal.Decimal) error
}

// UUIDGenerator issues the PayRun's primary key, mirroring the same
// interface internal/employee.Service depends on.
type UUIDGenerator interface {
	NewUUID() string
}

// Generator runs the monthly pay-run algorithm (§4.2) against the injected
// sources, using Calculate as its pure per-employee arithmetic core.
type Generator struct {
	repo       Repository
	employees  EmployeeSource
	attendance AttendanceSource
	loans      LoanSource
	advances   AdvanceSource
	params     Parameters
	uuid       UUIDGenerator
	now        func() time.Time
}

// NewGenerator wires a Generator from its data sources and the calculator's
// parameter table.
func NewGenerator(repo Repository, employees EmployeeSource, attendance AttendanceSource, loans LoanSource, advances AdvanceSource, params Parameters, uuid UUIDGenerator) *Generator {
	return &Generator{
		repo:       repo,
		employees:  employees,
		attendance: attendance,
		loans:      loans,
		advances:   advances,
		params:     params,
		uuid:       uuid,
		now:        time.Now,
	}
}

// Generate produces the PayRun for period, or Conflict if one already exists.
// Employees are processed in ascending public-id order; within an employee,
// loan EMIs are applied before advances (§4.2's ordering requirement).
func (g *Generator) Generate(ctx context.Context, period models.Period, generatedBy string) (*models.PayRun, error) {
	existing, err := g.repo.GetByPeriod(ctx, period)
	if err != nil {
		return nil, apierror.Wrap(err)
	}
	if existing != nil {
		return nil, apierror.New(apierror.Conflict, "a pay-run already exists for this period")
	}

	employees, err := g.employees.ListActive(ctx)
	if err != nil {
		return nil, apierror.Wrap(err)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].PublicID < employees[j].PublicID })

	var lineItems []models.PayRunLineItem
	totalGross := decimal.Zero
	totalDeductions := decimal.Zero
	totalNet := decimal.Zero

	for _, emp := range employees {
		line, err := g.generateLine(ctx, emp, period)
		if err != nil {
			reason := err.Error()
			if apiErr, ok := apierror.As(err); ok {
				reason = apiErr.Message
			}
			msg := fmt.Sprintf("pay-run generation failed for employee %s: %s", emp.PublicID, reason)
			return nil, apierror.New(apierror.DomainRuleViolation, msg)
		}
		lineItems = append(lineItems, line)
		totalGross = totalGross.Add(line.Gross.Decimal)
		lineDeductions := line.PFEmployee.Add(line.ESIEmployee.Decimal).
			Add(line.ProfessionalTax.Decimal).Add(line.TDSMonthly.Decimal).
			Add(line.LoanDeductions.Decimal).Add(line.AdvanceDeductions.Decimal)
		totalDeductions = totalDeductions.Add(lineDeductions)
		totalNet = totalNet.Add(line.Net.Decimal)
	}

	ts := g.now()
	run := &models.PayRun{
		Base:            models.Base{ID: g.uuid.NewUUID(), CreatedAt: ts, UpdatedAt: ts},
		Period:          period,
		GeneratedAt:     ts,
		GeneratedBy:     generatedBy,
		TotalGross:      models.NewDecimal(totalGross),
		TotalDeductions: models.NewDecimal(totalDeductions),
		TotalNet:        models.NewDecimal(totalNet),
		LineItems:       lineItems,
	}

	if err := g.repo.Create(ctx, run); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apierror.WrapAs(apierror.Conflict, ErrAlreadyGenerated)
		}
		return nil, apierror.Wrap(err)
	}
	for _, emp := range employees {
		if err := g.attendance.MarkConsumed(ctx, emp.ID, period); err != nil {
			return nil, apierror.Wrap(err)
		}
	}
	return run, nil
}

// Get returns a single pay-run by id.
func (g *Generator) Get(ctx context.Context, id string) (*models.PayRun, error) {
	run, err := g.repo.Get(ctx, id)
	if err != nil {
		return nil, apierror.Wrap(err)
	}
	return run, nil
}

// ListByYear returns every pay-run generated in year, in period order.
func (g *Generator) ListByYear(ctx context.Context, year int) ([]models.PayRun, error) {
	runs, err := g.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, apierror.Wrap(err)
	}
	return runs, nil
}

func (g *Generator) generateLine(ctx context.Context, emp models.Employee, period models.Period) (models.PayRunLineItem, error) {
	attendance, err := g.attendance.Get(ctx, emp.ID, period)
	if err != nil {
		return models.PayRunLineItem{}, apierror.Wrap(err)
	}

	totalWorkingDays := g.params.DefaultWorkingDays
	payableDays := totalWorkingDays
	lossOfPayDays := 0
	if attendance != nil {
		totalWorkingDays = attendance.TotalWorkingDays
		payableDays = attendance.PayableDays()
		lossOfPayDays = attendance.LossOfPayDays()
	}
	if totalWorkingDays <= 0 {
		return models.PayRunLineItem{}, apierror.New(apierror.DomainRuleViolation, "total working days must be positive")
	}

	proration := decimal.NewFromInt(int64(payableDays)).Div(decimal.NewFromInt(int64(totalWorkingDays)))

	comp := emp.Compensation
	proratedGross := round(comp.Gross.Decimal.Mul(proration))
	proratedBasic := round(comp.Basic.Decimal.Mul(proration))

	pfBase := proratedBasic
	if pfBase.GreaterThan(g.params.PFBaseCap) {
		pfBase = g.params.PFBaseCap
	}
	pfEmployee := decimal.Zero
	if comp.IncludePF {
		pfEmployee = round(pfBase.Mul(g.params.PFEmployeeRate))
	}
	esiEmployee := decimal.Zero
	if comp.IncludeESI {
		esiEmployee = round(proratedGross.Mul(g.params.ESIEmployeeRate))
	}
	professionalTax := g.params.professionalTax(proratedGross)

	lossOfPayAmount := decimal.Zero
	if totalWorkingDays > 0 {
		perDay := comp.Gross.Decimal.Div(decimal.NewFromInt(int64(totalWorkingDays)))
		lossOfPayAmount = round(perDay.Mul(decimal.NewFromInt(int64(lossOfPayDays))))
	}

	loanDeductions, err := g.deductLoans(ctx, emp.ID, period)
	if err != nil {
		return models.PayRunLineItem{}, err
	}

	residualForAdvances := proratedGross.Sub(pfEmployee).Sub(esiEmployee).Sub(professionalTax).Sub(loanDeductions)
	advanceDeductions, err := g.deductAdvances(ctx, emp.ID, period, residualForAdvances)
	if err != nil {
		return models.PayRunLineItem{}, err
	}

	net := proratedGross.Sub(pfEmployee).Sub(esiEmployee).Sub(professionalTax).Sub(comp.TDSMonthly.Decimal).
		Sub(loanDeductions).Sub(advanceDeductions).Sub(lossOfPayAmount)

	return models.PayRunLineItem{
		EmployeeID:        emp.ID,
		PayableDays:       payableDays,
		TotalWorkingDays:  totalWorkingDays,
		Gross:             models.NewDecimal(proratedGross),
		PFEmployee:        models.NewDecimal(pfEmployee),
		ESIEmployee:       models.NewDecimal(esiEmployee),
		ProfessionalTax:   models.NewDecimal(professionalTax),
		TDSMonthly:        comp.TDSMonthly,
		LoanDeductions:    models.NewDecimal(loanDeductions),
		AdvanceDeductions: models.NewDecimal(advanceDeductions),
		LossOfPayAmount:   models.NewDecimal(lossOfPayAmount),
		Net:               models.NewDecimal(net),
	}, nil
}

// deductLoans applies one EMI from every eligible ACTIVE loan whose start
// period has arrived, in the order the source returns them, and persists the
// resulting paid-count/status.
func (g *Generator) deductLoans(ctx context.Context, employeeID string, period models.Period) (decimal.Decimal, error) {
	loans, err := g.loans.ListActiveForEmployee(ctx, employeeID, period)
	if err != nil {
		return decimal.Zero, apierror.Wrap(err)
	}
	total := decimal.Zero
	for i := range loans {
		loan := &loans[i]
		if loan.Status != models.LoanActive || loan.PaidEMICount >= loan.EMICount || period.Before(loan.Start) {
			continue
		}
		emi := loan.EMIAmount.Decimal
		loan.PaidEMICount++
		loan.RemainingBalance = models.NewDecimal(loan.TotalAmount.Decimal.Sub(
			emi.Mul(decimal.NewFromInt(int64(loan.PaidEMICount)))))
		if loan.PaidEMICount >= loan.EMICount {
			loan.Status = models.LoanCompleted
			loan.RemainingBalance = models.DecimalZero()
		}
		if err := g.loans.RecordEMIPayment(ctx, loan); err != nil {
			return decimal.Zero, apierror.Wrap(err)
		}
		total = total.Add(emi)
	}
	return total, nil
}

// deductAdvances deducts every advance due in period, respecting
// partial_allowed and the residual-capacity ceiling (§4.4).
func (g *Generator) deductAdvances(ctx context.Context, employeeID string, period models.Period, residual decimal.Decimal) (decimal.Decimal, error) {
	advances, err := g.advances.ListDueForPeriod(ctx, employeeID, period)
	if err != nil {
		return decimal.Zero, apierror.Wrap(err)
	}
	total := decimal.Zero
	for i := range advances {
		adv := &advances[i]
		if adv.Status == models.AdvanceDeducted {
			continue
		}
		owed := adv.RemainingAmount.Decimal
		deduct := owed
		if adv.PartialAllowed {
			capacity := residual.Sub(total)
			if capacity.IsNegative() {
				capacity = decimal.Zero
			}
			if deduct.GreaterThan(capacity) {
				deduct = capacity
			}
		}
		if deduct.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if err := g.advances.RecordDeduction(ctx, adv, deduct); err != nil {
			return decimal.Zero, apierror.Wrap(err)
		}
		total = total.Add(deduct)
	}
	return total, nil
}

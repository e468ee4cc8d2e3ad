package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
	"github.com/HMB-research/open-accounting/internal/payroll"
)

// UUIDGenerator issues an employee's primary key.
type UUIDGenerator interface {
	NewUUID() string
}

// DefaultUUIDGenerator issues random v4 UUIDs.
type DefaultUUIDGenerator struct{}

func (DefaultUUIDGenerator) NewUUID() string { return uuid.NewString() }

// Service implements employee CRUD and exit handling, deriving the
// persisted Compensation block from the payroll calculator on create and on
// any compensation-affecting update.
type Service struct {
	repo   Repository
	uuid   UUIDGenerator
	params payroll.Parameters
	now    func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, gen UUIDGenerator, params payroll.Parameters) *Service {
	return &Service{repo: repo, uuid: gen, params: params, now: time.Now}
}

// Create validates uniqueness and join-date bounds, runs the calculator, and
// persists a new ACTIVE employee.
func (s *Service) Create(ctx context.Context, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	if existing, err := s.repo.GetByOfficialEmail(ctx, req.OfficialEmail); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	now := s.now()
	if req.JoinDate.After(now) {
		return nil, ErrJoinDateInFuture
	}

	comp, err := payroll.Calculate(payroll.CompensationInput{
		CTCAnnual:        req.CTCAnnual.Decimal,
		HRAPercent:       decimalPtr(req.HRAPercent),
		Conveyance:       decimalPtr(req.Conveyance),
		Telephone:        decimalPtr(req.Telephone),
		MedicalAllowance: decimalPtr(req.MedicalAllowance),
		IncludePF:        req.IncludePF,
		IncludeESI:       req.IncludeESI,
		TDSAnnual:        req.TDSAnnual.Decimal,
	}, s.params)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, apierror.Wrap(err)
	}

	e := &models.Employee{
		Base:               models.Base{ID: s.uuid.NewUUID(), CreatedAt: now, UpdatedAt: now},
		PublicID:           fmt.Sprintf("EMP-%05d", count+1),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		DOB:                req.DOB,
		OfficialEmail:      req.OfficialEmail,
		PersonalEmail:      req.PersonalEmail,
		Phone:              req.Phone,
		Address:            req.Address,
		EmploymentType:     req.EmploymentType,
		Department:         req.Department,
		DesignationID:      req.DesignationID,
		ReportingManagerID: req.ReportingManagerID,
		JoinDate:           req.JoinDate,
		WorkLocation:       req.WorkLocation,
		ProbationMonths:    req.ProbationMonths,
		Compensation:       comp,
		Bank:               req.Bank,
		Status:             models.EmployeeActive,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, apierror.Wrap(err)
	}
	return e, nil
}

func decimalPtr(d *models.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	return &d.Decimal
}

// Get fetches an employee by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Employee, error) {
	return s.repo.Get(ctx, id)
}

// List lists all employees regardless of status.
func (s *Service) List(ctx context.Context) ([]models.Employee, error) {
	return s.repo.List(ctx)
}

// Update applies the mutable subset of fields, re-running the calculator
// whenever any compensation input changes.
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateEmployeeRequest) (*models.Employee, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		e.Phone = *req.Phone
	}
	if req.Address != nil {
		e.Address = *req.Address
	}
	if req.Department != nil {
		e.Department = *req.Department
	}
	if req.DesignationID != nil {
		e.DesignationID = *req.DesignationID
	}
	if req.ReportingManagerID != nil {
		e.ReportingManagerID = *req.ReportingManagerID
	}
	if req.WorkLocation != nil {
		e.WorkLocation = *req.WorkLocation
	}
	if req.Bank != nil {
		e.Bank = *req.Bank
	}

	compChanged := req.CTCAnnual != nil || req.HRAPercent != nil || req.Conveyance != nil ||
		req.Telephone != nil || req.MedicalAllowance != nil || req.IncludePF != nil ||
		req.IncludeESI != nil || req.TDSAnnual != nil
	if compChanged {
		input := payroll.CompensationInput{
			CTCAnnual:        e.Compensation.CTCAnnual.Decimal,
			HRAPercent:       decimalPtr(&e.Compensation.HRAPercent),
			Conveyance:       decimalPtr(&e.Compensation.Conveyance),
			Telephone:        decimalPtr(&e.Compensation.Telephone),
			MedicalAllowance: decimalPtr(&e.Compensation.MedicalAllowance),
			IncludePF:        e.Compensation.IncludePF,
			IncludeESI:       e.Compensation.IncludeESI,
			TDSAnnual:        e.Compensation.TDSAnnual.Decimal,
		}
		if req.CTCAnnual != nil {
			input.CTCAnnual = req.CTCAnnual.Decimal
		}
		if req.HRAPercent != nil {
			input.HRAPercent = decimalPtr(req.HRAPercent)
		}
		if req.Conveyance != nil {
			input.Conveyance = decimalPtr(req.Conveyance)
		}
		if req.Telephone != nil {
			input.Telephone = decimalPtr(req.Telephone)
		}
		if req.MedicalAllowance != nil {
			input.MedicalAllowance = decimalPtr(req.MedicalAllowance)
		}
		if req.IncludePF != nil {
			input.IncludePF = *req.IncludePF
		}
		if req.IncludeESI != nil {
			input.IncludeESI = *req.IncludeESI
		}
		if req.TDSAnnual != nil {
			input.TDSAnnual = req.TDSAnnual.Decimal
		}

		comp, err := payroll.Calculate(input, s.params)
		if err != nil {
			return nil, err
		}
		e.Compensation = comp
	}

	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, apierror.Wrap(err)
	}
	return e, nil
}

// Exit flips an employee to INACTIVE; never a hard delete (§3).
func (s *Service) Exit(ctx context.Context, id string, req *models.ExitEmployeeRequest) (*models.Employee, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Status = models.EmployeeInactive
	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, apierror.Wrap(err)
	}
	return e, nil
}

// ListActive satisfies payroll.EmployeeSource.
func (s *Service) ListActive(ctx context.Context) ([]models.Employee, error) {
	return s.repo.ListActive(ctx)
}

// CountByDesignation satisfies designation.ReferenceChecker.
func (s *Service) CountByDesignation(ctx context.Context, designationID string) (int, error) {
	return s.repo.CountByDesignation(ctx, designationID)
}

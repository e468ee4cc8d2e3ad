package designation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/models"
)

// UUIDGenerator issues a designation's primary key.
type UUIDGenerator interface {
	NewUUID() string
}

// DefaultUUIDGenerator issues random v4 UUIDs.
type DefaultUUIDGenerator struct{}

func (DefaultUUIDGenerator) NewUUID() string { return uuid.NewString() }

// ReferenceChecker reports whether any employee still references a
// designation, so Delete can refuse rather than leave a dangling reference.
// Implemented by internal/employee without this package importing it.
type ReferenceChecker interface {
	CountByDesignation(ctx context.Context, designationID string) (int, error)
}

// Service implements designation catalog CRUD (§3's free-create/update/
// delete-by-ADMIN, refuse-delete-if-referenced rule).
type Service struct {
	repo Repository
	refs ReferenceChecker
	uuid UUIDGenerator
	now  func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, refs ReferenceChecker, gen UUIDGenerator) *Service {
	return &Service{repo: repo, refs: refs, uuid: gen, now: time.Now}
}

// maxHierarchyDepth bounds the reports-to chain walk Create/Update use to
// detect cycles; real org charts never approach it.
const maxHierarchyDepth = 50

func (s *Service) Create(ctx context.Context, req *models.CreateDesignationRequest) (*models.Designation, error) {
	if existing, err := s.repo.GetByTitle(ctx, req.Title); err == nil && existing != nil {
		return nil, ErrTitleTaken
	}
	if err := s.validateReportsTo(ctx, "", req.ReportsTo); err != nil {
		return nil, err
	}
	now := s.now()
	d := &models.Designation{
		Base:       models.Base{ID: s.uuid.NewUUID(), CreatedAt: now, UpdatedAt: now},
		Title:      req.Title,
		Department: req.Department,
		Level:      req.Level,
		ReportsTo:  req.ReportsTo,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, apierror.Wrap(err)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Designation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.Designation, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, req *models.UpdateDesignationRequest) (*models.Designation, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Department != nil {
		d.Department = *req.Department
	}
	if req.Level != nil {
		d.Level = *req.Level
	}
	if req.ReportsTo != nil {
		if err := s.validateReportsTo(ctx, d.ID, *req.ReportsTo); err != nil {
			return nil, err
		}
		d.ReportsTo = *req.ReportsTo
	}
	d.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, apierror.Wrap(err)
	}
	return d, nil
}

// Delete refuses with Conflict if any employee still references id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if s.refs != nil {
		count, err := s.refs.CountByDesignation(ctx, id)
		if err != nil {
			return apierror.Wrap(err)
		}
		if count > 0 {
			return ErrInUse
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apierror.Wrap(err)
	}
	return nil
}

// validateReportsTo confirms reportsTo (when set) names an existing
// designation and that adopting it would not create a cycle back to selfID
// (empty on Create, since a brand-new id can't yet appear in anyone's chain).
func (s *Service) validateReportsTo(ctx context.Context, selfID, reportsTo string) error {
	if reportsTo == "" {
		return nil
	}
	if reportsTo == selfID {
		return ErrCyclicHierarchy
	}
	current, err := s.repo.Get(ctx, reportsTo)
	if err != nil {
		return ErrReportsToNotFound
	}
	for i := 0; i < maxHierarchyDepth; i++ {
		if current.ReportsTo == "" {
			return nil
		}
		if current.ReportsTo == selfID {
			return ErrCyclicHierarchy
		}
		next, err := s.repo.Get(ctx, current.ReportsTo)
		if err != nil {
			return nil
		}
		current = next
	}
	return ErrCyclicHierarchy
}

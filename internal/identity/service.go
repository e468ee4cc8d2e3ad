package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/HMB-research/open-accounting/internal/apierror"
	"github.com/HMB-research/open-accounting/internal/auth"
	"github.com/HMB-research/open-accounting/internal/models"
)

// UUIDGenerator issues a user's primary key.
type UUIDGenerator interface {
	NewUUID() string
}

// DefaultUUIDGenerator issues random v4 UUIDs.
type DefaultUUIDGenerator struct{}

func (DefaultUUIDGenerator) NewUUID() string { return uuid.NewString() }

// PasswordHasher hashes and verifies plaintext passwords; satisfied by the
// auth package's bcrypt wrappers, kept as an interface so tests don't pay
// bcrypt's cost.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) bool
}

// BcryptHasher delegates to auth.HashPassword/auth.VerifyPassword.
type BcryptHasher struct{}

func (BcryptHasher) Hash(plaintext string) (string, error) { return auth.HashPassword(plaintext) }
func (BcryptHasher) Verify(hash, plaintext string) bool     { return auth.VerifyPassword(hash, plaintext) }

// Service implements registration, login, refresh, and role administration
// (§4.6) on top of Repository and the auth package's token service.
type Service struct {
	repo   Repository
	tokens *auth.TokenService
	hasher PasswordHasher
	uuid   UUIDGenerator
	now    func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, tokens *auth.TokenService, hasher PasswordHasher, gen UUIDGenerator) *Service {
	return &Service{repo: repo, tokens: tokens, hasher: hasher, uuid: gen, now: time.Now}
}

// Register creates a new enabled user account. Roles default to
// []models.Role{models.RoleUser} when the request carries none; every
// requested role must be one of the closed set (§4.6).
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if existing, _ := s.repo.GetByUsername(ctx, req.Username); existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, _ := s.repo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, ErrEmailTaken
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []models.Role{models.RoleUser}
	}
	for _, r := range roles {
		if !models.ValidRole(r) {
			return nil, ErrInvalidRole
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apierror.Wrap(err)
	}

	now := s.now()
	u := &models.User{
		Base:         models.Base{ID: s.uuid.NewUUID(), CreatedAt: now, UpdatedAt: now},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Enabled:      true,
		Roles:        roles,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apierror.Wrap(err)
	}
	return u, nil
}

// Login verifies credentials, rejects disabled accounts, stamps
// LastLoginAt, and issues an access/refresh token pair (§4.6).
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	u, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil || u == nil {
		return nil, ErrInvalidCreds
	}
	if !s.hasher.Verify(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCreds
	}
	if !u.Enabled {
		return nil, ErrDisabled
	}

	now := s.now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apierror.Wrap(err)
	}

	return s.issueTokens(u)
}

// Refresh validates a refresh token and issues a new access/refresh pair for
// the same subject, re-reading the user's current roles so a role change
// takes effect without requiring a fresh login.
func (s *Service) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.AuthResponse, error) {
	username, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, ErrInvalidRefresh
	}
	if !u.Enabled {
		return nil, ErrDisabled
	}

	return s.issueTokens(u)
}

func (s *Service) issueTokens(u *models.User) (*models.AuthResponse, error) {
	access, err := s.tokens.GenerateAccessToken(u.Username, u.Roles)
	if err != nil {
		return nil, apierror.Wrap(err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.Username)
	if err != nil {
		return nil, apierror.Wrap(err)
	}
	return &models.AuthResponse{Token: access, RefreshToken: refresh, User: u}, nil
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.Get(ctx, id)
}

// GetByUsername fetches a user by username; used to resolve the employee
// linked to a bearer token's subject, since Claims carries only username and
// roles.
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// List lists every user account (§6: ADMIN only).
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

// SetRoles overwrites a user's role set (§6: ADMIN only); every role must be
// one of the closed set.
func (s *Service) SetRoles(ctx context.Context, id string, roles []models.Role) (*models.User, error) {
	for _, r := range roles {
		if !models.ValidRole(r) {
			return nil, ErrInvalidRole
		}
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apierror.Wrap(err)
	}
	return u, nil
}

// SetEnabled toggles an account's ability to log in (§6: ADMIN only).
func (s *Service) SetEnabled(ctx context.Context, id string, enabled bool) (*models.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Enabled = enabled
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apierror.Wrap(err)
	}
	return u, nil
}

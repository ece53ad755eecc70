package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/graficabr/printshop-core/internal/account/entity"
	accountrepo "github.com/graficabr/printshop-core/internal/account/repo"
)

// sentinel errors for the failure modes callers branch on
var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrNothingToUpdate    = errors.New("nothing to update")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports caller-supplied data failing a documented
// constraint. Always raised before any storage access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Reason }

// Service implements the account lifecycle over the repository. All
// operations are synchronous; validation and not-found conditions resolve
// locally, storage errors propagate to the caller.
type Service struct {
	repo   *accountrepo.AccountRepo
	logger *zap.SugaredLogger
}

func NewService(db *sqlx.DB, r *accountrepo.AccountRepo, logger *zap.SugaredLogger) *Service {
	if r == nil {
		r = accountrepo.NewAccountRepo(db)
	}
	return &Service{repo: r, logger: logger}
}

const minSecretLen = 4

// Create validates and inserts a new account, returning its storage-assigned
// ID. The duplicate pre-check is a fast path for a friendly message; the
// unique index on email remains the backstop against the check-then-insert
// race.
func (s *Service) Create(ctx context.Context, name, email, secret, role string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &ValidationError{Field: "name", Reason: "name required"}
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, &ValidationError{Field: "email", Reason: "email required"}
	}
	if !strings.Contains(email, "@") {
		return 0, &ValidationError{Field: "email", Reason: "invalid email format"}
	}
	if len(secret) < minSecretLen {
		return 0, &ValidationError{Field: "secret", Reason: "secret must be at least 4 characters"}
	}
	role = strings.TrimSpace(role)
	if role == "" {
		role = entity.RoleOperator
	}
	if !entity.ValidRole(role) {
		return 0, &ValidationError{Field: "role", Reason: "role must be admin or operator"}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		s.logger.Infow("create rejected, email taken", "email", email)
		return 0, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	digest := Digest(secret)
	s.logger.Debugw("credential digest computed", "preview", DigestPreview(digest))

	id, err := s.repo.Insert(ctx, name, strings.ToLower(email), digest, role)
	if err != nil {
		return 0, err
	}
	s.logger.Infow("account created", "id", id, "role", role)
	return id, nil
}

// List returns all accounts ordered by name. An empty store yields an empty
// slice, not an error.
func (s *Service) List(ctx context.Context) ([]entity.Profile, error) {
	return s.repo.List(ctx)
}

// FindByEmail matches case-insensitively and returns the full row including
// the credential digest. Authenticate is the intended consumer; anything
// leaving the module must be converted to a Profile first.
func (s *Service) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrNotFound
	}
	row, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return row, err
}

// FindByID returns the digest-free account. A non-positive id is treated as
// absence, not as bad input.
func (s *Service) FindByID(ctx context.Context, id int64) (*entity.Profile, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	row, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return row, err
}

// UpdateInput carries the optional fields for a partial update. A blank or
// whitespace-only value means "not supplied" for that field.
type UpdateInput struct {
	Name   string
	Email  string
	Secret string
	Role   string
}

// Update applies the supplied fields to an existing account, re-validating
// only what was supplied. updated_at is refreshed in the same write.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	if id <= 0 {
		return ErrNotFound
	}
	current, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var patch accountrepo.Patch

	if name := strings.TrimSpace(in.Name); name != "" {
		patch.Name = &name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if !strings.Contains(email, "@") {
			return &ValidationError{Field: "email", Reason: "invalid email format"}
		}
		if !strings.EqualFold(email, current.Email) {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				s.logger.Infow("update rejected, email taken", "id", id, "email", email)
				return ErrEmailTaken
			} else if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}
		lowered := strings.ToLower(email)
		patch.Email = &lowered
	}
	if strings.TrimSpace(in.Secret) != "" {
		if len(in.Secret) < minSecretLen {
			return &ValidationError{Field: "secret", Reason: "secret must be at least 4 characters"}
		}
		digest := Digest(in.Secret)
		s.logger.Debugw("credential digest computed", "id", id, "preview", DigestPreview(digest))
		patch.Digest = &digest
	}
	if role := strings.TrimSpace(in.Role); role != "" {
		if !entity.ValidRole(role) {
			return &ValidationError{Field: "role", Reason: "role must be admin or operator"}
		}
		patch.Role = &role
	}

	if patch.Empty() {
		return ErrNothingToUpdate
	}

	affected, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	if affected == 0 {
		// row vanished between the existence check and the write
		return ErrNotFound
	}
	s.logger.Infow("account updated", "id", id)
	return nil
}

// Delete removes an account permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.logger.Infow("account deleted", "id", id)
	return nil
}

// Authenticate verifies email and secret against the stored digest. Every
// mismatch collapses into ErrInvalidCredentials to avoid account enumeration.
// The comparison is a plain equality check; there is no lockout or timing
// protection.
func (s *Service) Authenticate(ctx context.Context, email, secret string) (*entity.Profile, error) {
	if strings.TrimSpace(email) == "" || secret == "" {
		return nil, ErrInvalidCredentials
	}
	row, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if Digest(secret) != row.Digest {
		s.logger.Debugw("authentication failed", "id", row.ID)
		return nil, ErrInvalidCredentials
	}
	s.logger.Infow("authentication succeeded", "id", row.ID, "role", row.Role)
	return row.Profile(), nil
}

// Count returns the total number of accounts. A storage failure is swallowed
// and reported as zero; the warn log line is the only trace distinguishing an
// outage from an empty table.
func (s *Service) Count(ctx context.Context) int64 {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warnw("count failed, reporting zero", "err", err)
		return 0
	}
	return n
}

// ListByRole returns accounts with the given role ordered by name. An unknown
// role yields an empty slice rather than an error.
func (s *Service) ListByRole(ctx context.Context, role string) ([]entity.Profile, error) {
	if !entity.ValidRole(role) {
		s.logger.Warnw("list by role with unknown role", "role", role)
		return []entity.Profile{}, nil
	}
	return s.repo.ListByRole(ctx, role)
}

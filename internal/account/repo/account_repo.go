package repo

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/graficabr/printshop-core/internal/account/entity"
)

// AccountRepo provides data access for the accounts table using sqlx.
type AccountRepo struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepo { return &AccountRepo{db: db} }

// EnsureTable creates the accounts table if not exists (idempotent). The
// UNIQUE COLLATE NOCASE index on email is the authoritative uniqueness
// backstop; the service-level pre-check only exists for friendlier messages.
func (r *AccountRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS accounts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE COLLATE NOCASE,
  password_digest TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'operator',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_accounts_role ON accounts(role);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Insert adds a new account row with server-assigned timestamps and returns
// the new ID.
func (r *AccountRepo) Insert(ctx context.Context, name, email, digest, role string) (int64, error) {
	const q = `INSERT INTO accounts (name, email, password_digest, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	res, err := r.db.ExecContext(ctx, q, name, email, digest, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const profileColumns = `id, name, email, role, created_at, updated_at`

// List returns all accounts ordered by name, without the credential digest.
func (r *AccountRepo) List(ctx context.Context) ([]entity.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM accounts ORDER BY name`
	out := []entity.Profile{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByEmail returns the full row matched case-insensitively by email, or
// sql.ErrNoRows. The digest is included for authentication.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	const q = `SELECT id, name, email, password_digest, role, created_at, updated_at
		FROM accounts WHERE email = ? COLLATE NOCASE`
	var row entity.Account
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID returns the digest-free projection for an account, or sql.ErrNoRows.
func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*entity.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM accounts WHERE id = ?`
	var row entity.Profile
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Patch holds the optional field slots for a partial update. A nil slot means
// "leave the column untouched".
type Patch struct {
	Name   *string
	Email  *string
	Digest *string
	Role   *string
}

// Empty reports whether no slot is populated.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Digest == nil && p.Role == nil
}

// Update applies the populated slots of the patch to one row. The set-clause
// is assembled from a fixed, order-stable slot→column mapping; updated_at is
// refreshed as part of the same statement. Returns the affected-row count.
func (r *AccountRepo) Update(ctx context.Context, id int64, p Patch) (int64, error) {
	set := make([]string, 0, 5)
	args := make([]any, 0, 5)

	slots := []struct {
		column string
		value  *string
	}{
		{"name", p.Name},
		{"email", p.Email},
		{"password_digest", p.Digest},
		{"role", p.Role},
	}
	for _, s := range slots {
		if s.value != nil {
			set = append(set, s.column+" = ?")
			args = append(args, *s.value)
		}
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	q := `UPDATE accounts SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes one row and returns the affected-row count.
func (r *AccountRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the total number of account rows.
func (r *AccountRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM accounts`); err != nil {
		return 0, err
	}
	return n, nil
}

// ListByRole returns accounts with the given role ordered by name, without
// the credential digest.
func (r *AccountRepo) ListByRole(ctx context.Context, role string) ([]entity.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM accounts WHERE role = ? ORDER BY name`
	out := []entity.Profile{}
	if err := r.db.SelectContext(ctx, &out, q, role); err != nil {
		return nil, err
	}
	return out, nil
}

package entity

// Roles an account can hold. No finer-grained permission model exists.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleOperator
}

// Account is the full row shape for the accounts table, including the stored
// credential digest. It stays inside the account module; callers receive a
// Profile instead.
type Account struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Digest    string `db:"password_digest" json:"-"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// Profile is the digest-free projection handed to callers. Keeping the digest
// out of the type, rather than blanking a field, makes the stripping rule
// impossible to forget at call sites.
type Profile struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

// Profile strips the credential digest from a full account row.
func (a *Account) Profile() *Profile {
	return &Profile{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

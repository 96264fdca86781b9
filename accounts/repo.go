package accounts

import (
	"context"
	"time"
)

// Repo is the credential store consumed by the session manager and the
// invitation gate. Implementations return internal/errors.ErrNotFound when
// no account matches the key.
type Repo interface {
	Create(ctx context.Context, account *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)

	// UpdateRefreshToken overwrites the stored refresh-token hash and expiry
	// and stamps the login time in a single write.
	UpdateRefreshToken(ctx context.Context, id, tokenHash string, expiry, lastLogin time.Time) error

	// ClearRefreshToken removes the stored hash and expiry, ending the session.
	ClearRefreshToken(ctx context.Context, id string) error
}

// Package invitations gates account creation behind one-time registration
// tokens issued by an administrator.
package invitations

import (
	"context"
	"time"

	"github.com/jrsteele09/go-task-server/accounts"
)

// Invitation is a single-use registration grant. It shares the email key
// with accounts but is otherwise an independent collection; the registration
// operation, not a foreign key, enforces the relationship.
type Invitation struct {
	ID        string            `json:"id,omitempty"`
	Email     string            `json:"email,omitempty"`
	Name      string            `json:"name,omitempty"`
	Role      accounts.RoleType `json:"role,omitempty"`
	Token     string            `json:"-"` // unguessable, single-use - never serialize
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

// Repo stores invitations. Implementations return
// internal/errors.ErrNotFound when no invitation matches.
type Repo interface {
	Create(ctx context.Context, invitation *Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	GetByEmail(ctx context.Context, email string) (*Invitation, error)
	DeleteByID(ctx context.Context, id string) error
}

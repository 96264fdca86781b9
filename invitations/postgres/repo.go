package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/jrsteele09/go-task-server/invitations"
)

var _ invitations.Repo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, invitation *invitations.Invitation) error {
	if invitation.ID == "" {
		invitation.ID = uuid.New().String()
	}

	query :=
		`INSERT INTO invitations (id, email, name, role, token, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.Exec(ctx, query,
		invitation.ID, invitation.Email, invitation.Name, invitation.Role, invitation.Token, invitation.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *Repo) GetByToken(ctx context.Context, token string) (*invitations.Invitation, error) {
	return r.get(ctx, "token", token)
}

// GetByEmail returns the newest invitation for the email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*invitations.Invitation, error) {
	return r.get(ctx, "email", email)
}

func (r *Repo) get(ctx context.Context, column, key string) (*invitations.Invitation, error) {
	query := fmt.Sprintf(
		`SELECT id, email, name, role, token, created_at
		 FROM invitations
		 WHERE %s = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `, column)

	invitation := &invitations.Invitation{}
	err := r.db.QueryRow(ctx, query, key).Scan(
		&invitation.ID, &invitation.Email, &invitation.Name, &invitation.Role, &invitation.Token, &invitation.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interrors.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return invitation, nil
}

func (r *Repo) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrNotFound
	}
	return nil
}

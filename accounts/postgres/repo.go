package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/go-task-server/accounts"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
)

var _ accounts.Repo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, account *accounts.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	query :=
		`INSERT INTO accounts (id, email, name, password_hash, role,
		                       email_verified, email_verified_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.Exec(ctx, query,
		account.ID, account.Email, account.Name, account.PasswordHash, account.Role,
		account.EmailVerified.State, account.EmailVerified.Date, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	return r.get(ctx, "email", email)
}

func (r *Repo) GetByID(ctx context.Context, id string) (*accounts.Account, error) {
	return r.get(ctx, "id", id)
}

func (r *Repo) get(ctx context.Context, column, key string) (*accounts.Account, error) {
	query := fmt.Sprintf(
		`SELECT id, email, name, password_hash, role,
		        COALESCE(refresh_token_hash, ''), COALESCE(refresh_token_expiry, 'epoch'),
		        COALESCE(last_login, 'epoch'), email_verified, email_verified_at, created_at
		 FROM accounts
		 WHERE %s = $1
		 `, column)

	account := &accounts.Account{}
	err := r.db.QueryRow(ctx, query, key).Scan(
		&account.ID, &account.Email, &account.Name, &account.PasswordHash, &account.Role,
		&account.RefreshTokenHash, &account.RefreshTokenExpiry,
		&account.LastLogin, &account.EmailVerified.State, &account.EmailVerified.Date, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, interrors.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *Repo) UpdateRefreshToken(ctx context.Context, id, tokenHash string, expiry, lastLogin time.Time) error {
	query :=
		`UPDATE accounts
		 SET refresh_token_hash = $2, refresh_token_expiry = $3, last_login = $4
		 WHERE id = $1
		 `

	tag, err := r.db.Exec(ctx, query, id, tokenHash, expiry, lastLogin)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrNotFound
	}

	return nil
}

func (r *Repo) ClearRefreshToken(ctx context.Context, id string) error {
	query :=
		`UPDATE accounts
		 SET refresh_token_hash = NULL, refresh_token_expiry = NULL
		 WHERE id = $1
		 `

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return interrors.ErrNotFound
	}

	return nil
}

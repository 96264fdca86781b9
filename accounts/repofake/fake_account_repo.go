package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-task-server/accounts"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
)

var _ accounts.Repo = (*FakeAccountRepo)(nil)

type FakeAccountRepo struct {
	accounts map[string]*accounts.Account
	emailIds map[string]string // email to account id
	lock     sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{
		accounts: make(map[string]*accounts.Account),
		emailIds: make(map[string]string),
	}
}

func (ar *FakeAccountRepo) Create(_ context.Context, account *accounts.Account) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	copied := *account
	ar.accounts[account.ID] = &copied
	ar.emailIds[account.Email] = account.ID
	return nil
}

func (ar *FakeAccountRepo) GetByEmail(_ context.Context, email string) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	id, ok := ar.emailIds[email]
	if !ok {
		return nil, interrors.ErrNotFound
	}
	copied := *ar.accounts[id]
	return &copied, nil
}

func (ar *FakeAccountRepo) GetByID(_ context.Context, id string) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	account, ok := ar.accounts[id]
	if !ok {
		return nil, interrors.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (ar *FakeAccountRepo) UpdateRefreshToken(_ context.Context, id, tokenHash string, expiry, lastLogin time.Time) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	account, ok := ar.accounts[id]
	if !ok {
		return interrors.ErrNotFound
	}
	account.RefreshTokenHash = tokenHash
	account.RefreshTokenExpiry = expiry
	account.LastLogin = lastLogin
	return nil
}

func (ar *FakeAccountRepo) ClearRefreshToken(_ context.Context, id string) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	account, ok := ar.accounts[id]
	if !ok {
		return interrors.ErrNotFound
	}
	account.RefreshTokenHash = ""
	account.RefreshTokenExpiry = time.Time{}
	return nil
}

// Delete removes an account by email. Used by tests to simulate a deleted
// user holding a still-valid refresh token.
func (ar *FakeAccountRepo) Delete(_ context.Context, email string) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	id, ok := ar.emailIds[email]
	if !ok {
		return interrors.ErrNotFound
	}
	delete(ar.emailIds, email)
	delete(ar.accounts, id)
	return nil
}

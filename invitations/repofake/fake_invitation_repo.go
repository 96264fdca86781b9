package repofake

import (
	"context"
	"sync"

	"github.com/google/uuid"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/jrsteele09/go-task-server/invitations"
)

var _ invitations.Repo = (*FakeInvitationRepo)(nil)

type FakeInvitationRepo struct {
	invites map[string]*invitations.Invitation // keyed by id
	lock    sync.RWMutex
}

func NewFakeInvitationRepo() *FakeInvitationRepo {
	return &FakeInvitationRepo{
		invites: make(map[string]*invitations.Invitation),
	}
}

func (ir *FakeInvitationRepo) Create(_ context.Context, invitation *invitations.Invitation) error {
	ir.lock.Lock()
	defer ir.lock.Unlock()

	if invitation.ID == "" {
		invitation.ID = uuid.New().String()
	}
	copied := *invitation
	ir.invites[invitation.ID] = &copied
	return nil
}

func (ir *FakeInvitationRepo) GetByToken(_ context.Context, token string) (*invitations.Invitation, error) {
	ir.lock.RLock()
	defer ir.lock.RUnlock()

	for _, invitation := range ir.invites {
		if invitation.Token == token {
			copied := *invitation
			return &copied, nil
		}
	}
	return nil, interrors.ErrNotFound
}

// GetByEmail returns the newest invitation for the email.
func (ir *FakeInvitationRepo) GetByEmail(_ context.Context, email string) (*invitations.Invitation, error) {
	ir.lock.RLock()
	defer ir.lock.RUnlock()

	var newest *invitations.Invitation
	for _, invitation := range ir.invites {
		if invitation.Email != email {
			continue
		}
		if newest == nil || invitation.CreatedAt.After(newest.CreatedAt) {
			newest = invitation
		}
	}
	if newest == nil {
		return nil, interrors.ErrNotFound
	}
	copied := *newest
	return &copied, nil
}

func (ir *FakeInvitationRepo) DeleteByID(_ context.Context, id string) error {
	ir.lock.Lock()
	defer ir.lock.Unlock()

	if _, ok := ir.invites[id]; !ok {
		return interrors.ErrNotFound
	}
	delete(ir.invites, id)
	return nil
}

// Count reports how many invitations are stored. Test helper.
func (ir *FakeInvitationRepo) Count() int {
	ir.lock.RLock()
	defer ir.lock.RUnlock()
	return len(ir.invites)
}

package invitations

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-task-server/accounts"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/jrsteele09/go-task-server/notify"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const inviteTokenLength = 32

// GateConfig is the slice of configuration the invitation gate needs.
type GateConfig interface {
	GetBaseURL() string
	GetInviteTTL() time.Duration
}

// InviteResult reports the outcome of a successful Invite call.
// AlreadyInvited means a pending invitation already existed and no new token
// was issued; retries are idempotent.
type InviteResult struct {
	Link           string
	AlreadyInvited bool
}

type Service struct {
	invites  Repo
	accounts accounts.Repo
	sender   notify.Sender
	baseURL  string
	ttl      time.Duration
	logger   zerolog.Logger
	nowTime  func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes the invitation gate with required dependencies.
func NewService(invites Repo, accountRepo accounts.Repo, sender notify.Sender, cfg GateConfig, logger zerolog.Logger, options ...ServiceOption) (*Service, error) {
	if invites == nil {
		return nil, errors.New("[invitations.NewService] invitations repo is required")
	}
	if accountRepo == nil {
		return nil, errors.New("[invitations.NewService] accounts repo is required")
	}
	if sender == nil {
		return nil, errors.New("[invitations.NewService] sender is required")
	}

	service := &Service{
		invites:  invites,
		accounts: accountRepo,
		sender:   sender,
		baseURL:  cfg.GetBaseURL(),
		ttl:      cfg.GetInviteTTL(),
		logger:   logger,
		nowTime:  time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Invite issues a one-time registration token for email and delivers the
// registration link. If delivery fails the just-created invitation is rolled
// back so a retry is not refused as "already invited".
func (s *Service) Invite(ctx context.Context, email, name string, role accounts.RoleType) (*InviteResult, error) {
	// The two existence checks have no ordering dependency.
	var (
		existingAccount *accounts.Account
		pendingInvite   *Invitation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		account, err := s.accounts.GetByEmail(gctx, email)
		if err != nil && !errors.Is(err, interrors.ErrNotFound) {
			return errors.Wrap(err, "[Service.Invite] accounts.GetByEmail")
		}
		existingAccount = account
		return nil
	})
	g.Go(func() error {
		invitation, err := s.invites.GetByEmail(gctx, email)
		if err != nil && !errors.Is(err, interrors.ErrNotFound) {
			return errors.Wrap(err, "[Service.Invite] invites.GetByEmail")
		}
		pendingInvite = invitation
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if existingAccount != nil {
		return nil, interrors.ErrAlreadyRegistered
	}
	if pendingInvite != nil {
		if !s.expired(pendingInvite) {
			return &InviteResult{AlreadyInvited: true}, nil
		}
		// An email holds at most one invitation; remove the expired one
		// before issuing its replacement.
		if err := s.invites.DeleteByID(ctx, pendingInvite.ID); err != nil && !errors.Is(err, interrors.ErrNotFound) {
			return nil, errors.Wrap(err, "[Service.Invite] DeleteByID")
		}
	}

	invitation := &Invitation{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Role:      role,
		Token:     generateInviteToken(),
		CreatedAt: s.nowTime(),
	}
	if err := s.invites.Create(ctx, invitation); err != nil {
		return nil, errors.Wrap(err, "[Service.Invite] Create")
	}

	link := fmt.Sprintf("%s/register/%s", s.baseURL, invitation.Token)
	if err := s.sender.Send(ctx, email, notify.TemplateInvitation, notify.TemplateData{
		"name": name,
		"link": link,
	}); err != nil {
		// Compensating rollback: an invitation the user can never learn
		// about must not linger and block retries.
		if delErr := s.invites.DeleteByID(ctx, invitation.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("email", email).Msg("failed to roll back undelivered invitation")
		}
		s.logger.Error().Err(err).Str("email", email).Msg("invitation delivery failed")
		return nil, interrors.ErrDeliveryFailed
	}

	return &InviteResult{Link: link}, nil
}

// Register consumes an invitation token and creates the account. The role
// comes from the invitation, never from the client; the client supplies only
// the password.
func (s *Service) Register(ctx context.Context, rawToken, password string) error {
	invitation, err := s.invites.GetByToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, interrors.ErrNotFound) {
			return interrors.ErrInvalidInvitation
		}
		return errors.Wrap(err, "[Service.Register] GetByToken")
	}
	if s.expired(invitation) {
		return interrors.ErrInvalidInvitation
	}

	// Registration is one-shot: a second attempt with a still-existing token
	// after a prior success must not recreate the account.
	_, err = s.accounts.GetByEmail(ctx, invitation.Email)
	switch {
	case err == nil:
		return interrors.ErrAlreadyRegistered
	case errors.Is(err, interrors.ErrNotFound):
	default:
		return errors.Wrap(err, "[Service.Register] accounts.GetByEmail")
	}

	passwordHash, err := accounts.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "[Service.Register] HashPassword")
	}

	now := s.nowTime()
	account := &accounts.Account{
		Email:        invitation.Email,
		Name:         invitation.Name,
		Role:         invitation.Role,
		PasswordHash: passwordHash,
		// The invitation flow already disclosed and exercised the address.
		EmailVerified: accounts.EmailVerification{State: true, Date: &now},
		CreatedAt:     now,
	}
	// If this write fails the invitation must remain so the client can retry.
	if err := s.accounts.Create(ctx, account); err != nil {
		return errors.Wrap(err, "[Service.Register] accounts.Create")
	}

	// Leaking an unconsumed invitation after a successful registration is
	// acceptable; the account-exists check above keeps it unusable.
	if err := s.invites.DeleteByID(ctx, invitation.ID); err != nil {
		s.logger.Error().Err(err).Str("email", invitation.Email).Msg("failed to delete consumed invitation")
	}

	return nil
}

func (s *Service) expired(invitation *Invitation) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.nowTime().Sub(invitation.CreatedAt) > s.ttl
}

// generateInviteToken creates a random base64url string
func generateInviteToken() string {
	b := make([]byte, inviteTokenLength)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Package session orchestrates login, refresh, and logout against the
// credential store and the token codec. It owns the single-active-refresh-
// token invariant: a new login overwrites the stored hash, logout clears it.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jrsteele09/go-task-server/accounts"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/jrsteele09/go-task-server/token"
	"github.com/pkg/errors"
)

// Repos holds all repository dependencies for the session Service.
type Repos struct {
	Accounts accounts.Repo
}

// LoginResult carries the tokens issued by a successful login. The refresh
// token must only ever travel in an HTTP-only cookie, never a response body.
type LoginResult struct {
	AccessToken   string
	RefreshToken  string
	RefreshExpiry time.Duration
}

type Service struct {
	repos      Repos
	codec      *token.Codec
	persistTTL time.Duration    // server-side refresh ceiling stored on the account
	nowTime    func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a session Service with required dependencies.
func NewService(repos Repos, codec *token.Codec, persistTTL time.Duration, options ...ServiceOption) (*Service, error) {
	if repos.Accounts == nil {
		return nil, errors.New("[NewService] Accounts repo is required")
	}
	if codec == nil {
		return nil, errors.New("[NewService] codec is required")
	}
	if persistTTL <= 0 {
		persistTTL = 8 * time.Hour
	}

	service := &Service{
		repos:      repos,
		codec:      codec,
		persistTTL: persistTTL,
		nowTime:    time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Login authenticates the credentials and starts a session. Lookup and
// password failures both return ErrInvalidCredentials so the response cannot
// distinguish a missing account from a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.repos.Accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interrors.ErrNotFound) {
			return nil, interrors.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Service.Login] GetByEmail")
	}

	if !accounts.CheckPasswordHash(password, account.PasswordHash) {
		return nil, interrors.ErrInvalidCredentials
	}

	if !account.EmailVerified.State {
		return nil, interrors.ErrEmailNotVerified
	}

	identity := token.Identity{
		UserID:      account.ID,
		Role:        string(account.Role),
		DisplayName: account.Name,
	}

	accessToken, err := s.codec.IssueAccess(identity)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] IssueAccess")
	}
	refreshToken, err := s.codec.IssueRefresh(identity)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] IssueRefresh")
	}

	// Persistence failure is fatal: the client must not end up holding a
	// refresh token the server never recorded.
	now := s.nowTime()
	if err := s.repos.Accounts.UpdateRefreshToken(ctx, account.ID, HashToken(refreshToken), now.Add(s.persistTTL), now); err != nil {
		return nil, errors.Wrap(err, "[Service.Login] UpdateRefreshToken")
	}

	return &LoginResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		RefreshExpiry: s.persistTTL,
	}, nil
}

// Refresh exchanges a presented refresh token for a new access token. The
// stored hash is the revocation check: logout or a newer login invalidates
// older refresh tokens even while they are still cryptographically valid.
// The refresh token itself is not rotated here; login is the only rotation
// point, so rotate-on-refresh would be a local change to this method.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (string, error) {
	if rawRefreshToken == "" {
		return "", interrors.ErrUnauthenticated
	}

	identity, err := s.codec.Verify(rawRefreshToken, token.KindRefresh)
	switch {
	case err == nil:
	case errors.Is(err, interrors.ErrTokenExpired):
		return "", interrors.ErrRefreshExpired
	case errors.Is(err, interrors.ErrMalformedClaim):
		// Structurally valid token missing the required identity claim.
		return "", interrors.ErrForbidden
	default:
		// A well-formed cookie failing signature verification here points at
		// a signing-key mismatch or tampering, not a caller mistake.
		return "", errors.Wrap(interrors.ErrTokenInvalid, "[Service.Refresh] Verify")
	}

	account, err := s.repos.Accounts.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, interrors.ErrNotFound) {
			return "", interrors.ErrForbidden
		}
		return "", errors.Wrap(err, "[Service.Refresh] GetByID")
	}

	if account.RefreshTokenHash == "" || account.RefreshTokenHash != HashToken(rawRefreshToken) {
		return "", interrors.ErrForbidden
	}

	// Secondary ceiling; the expiry embedded in the token normally fires first.
	if !account.RefreshTokenExpiry.IsZero() && s.nowTime().After(account.RefreshTokenExpiry) {
		return "", interrors.ErrRefreshExpired
	}

	accessToken, err := s.codec.IssueAccess(token.Identity{
		UserID:      account.ID,
		Role:        string(account.Role),
		DisplayName: account.Name,
	})
	if err != nil {
		return "", errors.Wrap(err, "[Service.Refresh] IssueAccess")
	}

	return accessToken, nil
}

// Logout invalidates the presented refresh token. It reports whether a
// session was actually cleared and must never fail the caller over a stale
// or garbage cookie; only a persistence failure on a resolved account is an
// error.
func (s *Service) Logout(ctx context.Context, rawRefreshToken string) (bool, error) {
	if rawRefreshToken == "" {
		return false, nil
	}

	identity, err := s.codec.Verify(rawRefreshToken, token.KindRefresh)
	if err != nil {
		return false, nil
	}

	account, err := s.repos.Accounts.GetByID(ctx, identity.UserID)
	if err != nil {
		return false, nil
	}
	if account.RefreshTokenHash == "" {
		return false, nil
	}

	if err := s.repos.Accounts.ClearRefreshToken(ctx, account.ID); err != nil {
		return false, errors.Wrap(err, "[Service.Logout] ClearRefreshToken")
	}

	return true, nil
}

// HashToken is the one-way hash under which refresh tokens are stored and
// compared: sha256 of the raw token, hex encoded.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

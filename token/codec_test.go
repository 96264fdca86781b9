package token_test

import (
	"testing"
	"time"

	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/jrsteele09/go-task-server/token"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-1234"
	testRefreshSecret = "refresh-secret-5678"
	testUserID        = "user-1"
	testRole          = "user"
	testDisplayName   = "John Doe"
)

type testSecrets struct {
	access        string
	refresh       string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func (s testSecrets) GetAccessTokenSecret() string         { return s.access }
func (s testSecrets) GetRefreshTokenSecret() string        { return s.refresh }
func (s testSecrets) GetAccessTokenExpiry() time.Duration  { return s.accessExpiry }
func (s testSecrets) GetRefreshTokenExpiry() time.Duration { return s.refreshExpiry }

func defaultSecrets() testSecrets {
	return testSecrets{
		access:        testAccessSecret,
		refresh:       testRefreshSecret,
		accessExpiry:  15 * time.Minute,
		refreshExpiry: 3 * time.Hour,
	}
}

func testIdentity() token.Identity {
	return token.Identity{
		UserID:      testUserID,
		Role:        testRole,
		DisplayName: testDisplayName,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec, err := token.New(defaultSecrets())
	require.NoError(t, err)

	raw, err := codec.IssueAccess(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	identity, err := codec.Verify(raw, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, testIdentity(), *identity)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	codec, err := token.New(defaultSecrets())
	require.NoError(t, err)

	raw, err := codec.IssueRefresh(testIdentity())
	require.NoError(t, err)

	identity, err := codec.Verify(raw, token.KindRefresh)
	require.NoError(t, err)
	require.Equal(t, testIdentity(), *identity)
}

func TestVerifyAfterValidityWindowElapsed(t *testing.T) {
	now := time.Now()
	codec, err := token.New(defaultSecrets(), token.WithNowFunc(func() time.Time { return now }))
	require.NoError(t, err)

	raw, err := codec.IssueAccess(testIdentity())
	require.NoError(t, err)

	// Still valid one minute before expiry.
	now = now.Add(14 * time.Minute)
	_, err = codec.Verify(raw, token.KindAccess)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = codec.Verify(raw, token.KindAccess)
	require.ErrorIs(t, err, interrors.ErrTokenExpired)
}

func TestAccessTokenCannotBeReplayedAsRefresh(t *testing.T) {
	codec, err := token.New(defaultSecrets())
	require.NoError(t, err)

	raw, err := codec.IssueAccess(testIdentity())
	require.NoError(t, err)

	_, err = codec.Verify(raw, token.KindRefresh)
	require.ErrorIs(t, err, interrors.ErrTokenInvalid)
}

func TestVerifyTamperedToken(t *testing.T) {
	codec, err := token.New(defaultSecrets())
	require.NoError(t, err)

	raw, err := codec.IssueAccess(testIdentity())
	require.NoError(t, err)

	_, err = codec.Verify(raw+"x", token.KindAccess)
	require.ErrorIs(t, err, interrors.ErrTokenInvalid)

	_, err = codec.Verify("not-a-token", token.KindAccess)
	require.ErrorIs(t, err, interrors.ErrTokenInvalid)
}

func TestVerifyDistinguishesMalformedClaim(t *testing.T) {
	codec, err := token.New(defaultSecrets())
	require.NoError(t, err)

	// Signed and unexpired, but missing the identity claim.
	raw, err := codec.IssueAccess(token.Identity{Role: testRole})
	require.NoError(t, err)

	_, err = codec.Verify(raw, token.KindAccess)
	require.ErrorIs(t, err, interrors.ErrMalformedClaim)
}

func TestNewRejectsMissingOrSharedSecrets(t *testing.T) {
	_, err := token.New(testSecrets{access: "", refresh: testRefreshSecret})
	require.Error(t, err)

	_, err = token.New(testSecrets{access: "same", refresh: "same"})
	require.Error(t, err)
}

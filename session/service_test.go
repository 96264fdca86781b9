package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-task-server/accounts"
	"github.com/jrsteele09/go-task-server/accounts/repofake"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
	"github.com/jrsteele09/go-task-server/session"
	"github.com/jrsteele09/go-task-server/token"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "test@example.com"
	testPassword = "correctPassword1"
	testName     = "Test User"
)

type testSecrets struct{}

func (testSecrets) GetAccessTokenSecret() string         { return "access-secret-1234" }
func (testSecrets) GetRefreshTokenSecret() string        { return "refresh-secret-5678" }
func (testSecrets) GetAccessTokenExpiry() time.Duration  { return 15 * time.Minute }
func (testSecrets) GetRefreshTokenExpiry() time.Duration { return 3 * time.Hour }

// testFixture holds all test dependencies
type testFixture struct {
	accountRepo *repofake.FakeAccountRepo
	codec       *token.Codec
	service     *session.Service
	now         time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		accountRepo: repofake.NewFakeAccountRepo(),
		now:         time.Now(),
	}
	nowFunc := func() time.Time { return f.now }

	codec, err := token.New(testSecrets{}, token.WithNowFunc(nowFunc))
	require.NoError(t, err)
	f.codec = codec

	service, err := session.NewService(session.Repos{Accounts: f.accountRepo}, codec, 8*time.Hour, session.WithNowTime(nowFunc))
	require.NoError(t, err)
	f.service = service

	return f
}

func (f *testFixture) createTestAccount(t *testing.T, email string, verified bool) *accounts.Account {
	t.Helper()

	passwordHash, err := accounts.HashPassword(testPassword)
	require.NoError(t, err)

	account := &accounts.Account{
		Email:         email,
		Name:          testName,
		PasswordHash:  passwordHash,
		Role:          accounts.RoleUser,
		EmailVerified: accounts.EmailVerification{State: verified},
		CreatedAt:     f.now,
	}
	require.NoError(t, f.accountRepo.Create(context.Background(), account))
	return account
}

func TestLoginIssuesTokensAndPersistsRefreshHash(t *testing.T) {
	f := setupTestFixture(t)
	created := f.createTestAccount(t, testEmail, true)

	result, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, 8*time.Hour, result.RefreshExpiry)

	identity, err := f.codec.Verify(result.AccessToken, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, created.ID, identity.UserID)
	require.Equal(t, string(accounts.RoleUser), identity.Role)
	require.Equal(t, testName, identity.DisplayName)

	stored, err := f.accountRepo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, session.HashToken(result.RefreshToken), stored.RefreshTokenHash)
	require.Equal(t, f.now, stored.LastLogin)
	require.Equal(t, f.now.Add(8*time.Hour), stored.RefreshTokenExpiry)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t, testEmail, true)

	_, wrongPasswordErr := f.service.Login(context.Background(), testEmail, "wrongPassword1")
	require.ErrorIs(t, wrongPasswordErr, interrors.ErrInvalidCredentials)

	_, unknownAccountErr := f.service.Login(context.Background(), "nobody@example.com", testPassword)
	require.ErrorIs(t, unknownAccountErr, interrors.ErrInvalidCredentials)

	// Enumeration safety: identical error, message included.
	require.Equal(t, wrongPasswordErr.Error(), unknownAccountErr.Error())
}

func TestLoginUnverifiedEmail(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t, testEmail, false)

	_, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.ErrorIs(t, err, interrors.ErrEmailNotVerified)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	f := setupTestFixture(t)
	created := f.createTestAccount(t, testEmail, true)

	result, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	accessToken, err := f.service.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)

	identity, err := f.codec.Verify(accessToken, token.KindAccess)
	require.NoError(t, err)
	require.Equal(t, created.ID, identity.UserID)
}

func TestRefreshWithoutToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Refresh(context.Background(), "")
	require.ErrorIs(t, err, interrors.ErrUnauthenticated)
}

func TestRefreshExpiredToken(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t, testEmail, true)

	result, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	// Past the 3h expiry embedded in the refresh token.
	f.now = f.now.Add(4 * time.Hour)

	_, err = f.service.Refresh(context.Background(), result.RefreshToken)
	require.ErrorIs(t, err, interrors.ErrRefreshExpired)
}

func TestRefreshRejectedAfterSecondLogin(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t, testEmail, true)

	first, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	// A newer login overwrites the stored hash; the old token is revoked
	// even though it is still cryptographically valid.
	second, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), first.RefreshToken)
	require.ErrorIs(t, err, interrors.ErrForbidden)

	_, err = f.service.Refresh(context.Background(), second.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectedAfterLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t, testEmail, true)

	result, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	cleared, err := f.service.Logout(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	require.True(t, cleared)

	_, err = f.service.Refresh(context.Background(), result.RefreshToken)
	require.ErrorIs(t, err, interrors.ErrForbidden)
}

func TestRefreshForDeletedAccount(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t, testEmail, true)

	result, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	require.NoError(t, f.accountRepo.Delete(context.Background(), testEmail))

	// Deleted user is not distinguished from other forbidden causes.
	_, err = f.service.Refresh(context.Background(), result.RefreshToken)
	require.ErrorIs(t, err, interrors.ErrForbidden)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	f.createTestAccount(t, testEmail, true)

	result, err := f.service.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	cleared, err := f.service.Logout(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	require.True(t, cleared)

	cleared, err = f.service.Logout(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	require.False(t, cleared)

	cleared, err = f.service.Logout(context.Background(), "")
	require.NoError(t, err)
	require.False(t, cleared)
}

func TestLogoutWithGarbageToken(t *testing.T) {
	f := setupTestFixture(t)

	cleared, err := f.service.Logout(context.Background(), "garbage-cookie-value")
	require.NoError(t, err)
	require.False(t, cleared)
}

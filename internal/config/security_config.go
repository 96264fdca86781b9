package config

import "time"

type SecurityConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshPersistExpiry() time.Duration
	GetInviteTTL() time.Duration
}

type Security struct {
	accessSecret  string
	refreshSecret string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	persistExpiry time.Duration
	inviteTTL     time.Duration
}

var _ SecurityConfig = Security{}

func newSecurity() Security {
	return Security{
		accessSecret:  GetEnv("ACCESS_TOKEN_SECRET", ""),
		refreshSecret: GetEnv("REFRESH_TOKEN_SECRET", ""),
		accessExpiry:  getDurationEnv("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		refreshExpiry: getDurationEnv("REFRESH_TOKEN_EXPIRY", 3*time.Hour),
		persistExpiry: getDurationEnv("REFRESH_PERSIST_EXPIRY", 8*time.Hour),
		inviteTTL:     getDurationEnv("INVITE_TTL", 0),
	}
}

func (s Security) GetAccessTokenSecret() string {
	return s.accessSecret
}

func (s Security) GetRefreshTokenSecret() string {
	return s.refreshSecret
}

func (s Security) GetAccessTokenExpiry() time.Duration {
	return s.accessExpiry
}

// GetRefreshTokenExpiry is the validity window embedded in the refresh token
// itself. The persisted expiry below is a secondary ceiling; the shorter of
// the two governs.
func (s Security) GetRefreshTokenExpiry() time.Duration {
	return s.refreshExpiry
}

// GetRefreshPersistExpiry is the absolute server-side expiry stored on the
// account at login, and the Max-Age of the refresh cookie.
func (s Security) GetRefreshPersistExpiry() time.Duration {
	return s.persistExpiry
}

// GetInviteTTL bounds how long an unredeemed invitation stays valid.
// Zero disables expiry.
func (s Security) GetInviteTTL() time.Duration {
	return s.inviteTTL
}

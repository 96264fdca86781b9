// Package token signs and verifies the two token kinds the session core
// issues. Access and refresh tokens are verified against independent secrets
// so an access token can never be replayed as a refresh token.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	interrors "github.com/jrsteele09/go-task-server/internal/errors"
)

// Kind selects the signing secret and validity window for a token.
type Kind int

const (
	KindAccess Kind = iota
	KindRefresh
)

// Identity is the claim payload carried by both token kinds.
type Identity struct {
	UserID      string
	Role        string
	DisplayName string
}

// Claims is the wire shape of a signed token.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"uid"`
	Role        string `json:"role,omitempty"`
	DisplayName string `json:"name,omitempty"`
}

// SecretsConfig is the slice of configuration the codec needs.
type SecretsConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowFunc       func() time.Time
}

type CodecOption func(*Codec)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func New(cfg SecretsConfig, options ...CodecOption) (*Codec, error) {
	if cfg.GetAccessTokenSecret() == "" || cfg.GetRefreshTokenSecret() == "" {
		return nil, errors.New("[token.New] both signing secrets are required")
	}
	if cfg.GetAccessTokenSecret() == cfg.GetRefreshTokenSecret() {
		return nil, errors.New("[token.New] access and refresh secrets must differ")
	}

	c := &Codec{
		accessSecret:  []byte(cfg.GetAccessTokenSecret()),
		refreshSecret: []byte(cfg.GetRefreshTokenSecret()),
		accessExpiry:  cfg.GetAccessTokenExpiry(),
		refreshExpiry: cfg.GetRefreshTokenExpiry(),
		nowFunc:       time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	if c.accessExpiry == 0 {
		c.accessExpiry = 15 * time.Minute
	}
	if c.refreshExpiry == 0 {
		c.refreshExpiry = 3 * time.Hour
	}

	return c, nil
}

// IssueAccess creates a short-lived access token for the identity.
func (c *Codec) IssueAccess(identity Identity) (string, error) {
	return c.issue(identity, c.accessSecret, c.accessExpiry)
}

// IssueRefresh creates a refresh token with the longer embedded expiry.
func (c *Codec) IssueRefresh(identity Identity) (string, error) {
	return c.issue(identity, c.refreshSecret, c.refreshExpiry)
}

func (c *Codec) issue(identity Identity, secret []byte, expiry time.Duration) (string, error) {
	now := c.nowFunc()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(),
		},
		UserID:      identity.UserID,
		Role:        identity.Role,
		DisplayName: identity.DisplayName,
	})

	return token.SignedString(secret)
}

// Verify checks the signature and validity window of raw for the given kind,
// then validates the claim shape as a separate step. It fails with exactly
// one of interrors.ErrTokenExpired, interrors.ErrTokenInvalid, or
// interrors.ErrMalformedClaim.
func (c *Codec) Verify(raw string, kind Kind) (*Identity, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.nowFunc),
	)

	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret(kind), nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, interrors.ErrTokenExpired
	default:
		// Bad signature, wrong secret, or undecodable token.
		return nil, interrors.ErrTokenInvalid
	}

	// Signature validity does not imply claim validity.
	if claims.UserID == "" {
		return nil, interrors.ErrMalformedClaim
	}

	return &Identity{
		UserID:      claims.UserID,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
	}, nil
}

func (c *Codec) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}

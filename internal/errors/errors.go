package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session core
var (
	// Authentication errors. ErrInvalidCredentials deliberately covers both
	// "no such account" and "wrong password" so responses cannot be used to
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrUnauthenticated    = errors.New("not authenticated")

	// Token errors
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrMalformedClaim = errors.New("malformed token claim")

	// Refresh errors
	ErrRefreshExpired = errors.New("refresh token expired")
	ErrForbidden      = errors.New("forbidden")

	// Invitation errors
	ErrAlreadyRegistered = errors.New("user already created")
	ErrInvalidInvitation = errors.New("invalid invitation")
	ErrDeliveryFailed    = errors.New("invitation delivery failed")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

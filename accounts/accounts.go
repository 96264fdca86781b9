package accounts

import (
	"fmt"
	"time"

	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// RoleType is the authorization tag carried in access-token claims. The
// session core reads it but route-level enforcement belongs to middleware.
type RoleType string

const (
	RoleAdmin RoleType = "admin"
	RoleUser  RoleType = "user"
)

// EmailVerification records whether and when the account's address was
// confirmed. Login is refused while State is false.
type EmailVerification struct {
	State bool       `json:"state"`
	Date  *time.Time `json:"date,omitempty"`
}

type Account struct {
	ID           string   `json:"id,omitempty"`    // Unique identifier for the account
	Email        string   `json:"email,omitempty"` // Login key, unique, case-preserving
	Name         string   `json:"name,omitempty"`  // Display name
	PasswordHash string   `json:"-"`               // Hashed password - never serialize
	Role         RoleType `json:"role,omitempty"`

	// At most one refresh token is valid per account. Issuing a new one
	// overwrites the hash; clearing it is the sole revocation mechanism.
	RefreshTokenHash   string    `json:"-"`
	RefreshTokenExpiry time.Time `json:"-"`

	LastLogin     time.Time         `json:"last_login,omitempty"`
	EmailVerified EmailVerification `json:"email_verified"`
	CreatedAt     time.Time         `json:"created_at,omitempty"`
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash does a constant-time comparison of password against hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

package accounts_test

import (
	"testing"

	"github.com/jrsteele09/go-task-server/accounts"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "correctPassword1", wantErr: false},
		{name: "minimum length", password: "aB3defgh", wantErr: false},
		{name: "too short", password: "aB3defg", wantErr: true},
		{name: "no uppercase", password: "lowercase1only", wantErr: true},
		{name: "no lowercase", password: "UPPERCASE1ONLY", wantErr: true},
		{name: "no digit", password: "NoDigitsHere", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounts.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := accounts.HashPassword("correctPassword1")
	require.NoError(t, err)
	require.NotEqual(t, "correctPassword1", hash)

	require.True(t, accounts.CheckPasswordHash("correctPassword1", hash))
	require.False(t, accounts.CheckPasswordHash("wrongPassword1", hash))
	require.False(t, accounts.CheckPasswordHash("correctPassword1", "not-a-hash"))
}

func TestIsAdmin(t *testing.T) {
	admin := &accounts.Account{Role: accounts.RoleAdmin}
	require.True(t, admin.IsAdmin())

	user := &accounts.Account{Role: accounts.RoleUser}
	require.False(t, user.IsAdmin())
}

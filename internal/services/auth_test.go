package services

import (
	"testing"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestStore(t), utils.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour))
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:    "Jane@Example.com",
		Password: "secret1",
		Name:     "Jane Doe",
		Phone:    "+15550100",
		Address:  "1 Main St",
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthFixture(t)

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing address", func(r *RegisterRequest) { r.Address = "" }},
		{"bad email", func(r *RegisterRequest) { r.Email = "jane.example.com" }},
		{"short password", func(r *RegisterRequest) { r.Password = "a1" }},
		{"password without digit", func(r *RegisterRequest) { r.Password = "secretpass" }},
		{"name with digits", func(r *RegisterRequest) { r.Name = "Jane 2" }},
		{"short phone", func(r *RegisterRequest) { r.Phone = "12345" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(&req)
			_, err := svc.Register(req)
			assertKind(t, err, ErrValidation)
		})
	}
}

func TestRegisterLoginRefresh(t *testing.T) {
	svc := newAuthFixture(t)

	user, err := svc.Register(validRegistration())
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.False(t, user.IsAdmin)

	_, err = svc.Register(validRegistration())
	assertKind(t, err, ErrConflict)

	_, err = svc.Login(LoginRequest{Email: "jane@example.com", Password: "wrong1"})
	assertKind(t, err, ErrUnauthorized)

	auth, err := svc.Login(LoginRequest{Email: "JANE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token.AccessToken)
	assert.Equal(t, user.ID, auth.User.ID)

	_, err = svc.Refresh(RefreshRequest{RefreshToken: auth.Token.AccessToken})
	assertKind(t, err, ErrUnauthorized)

	refreshed, err := svc.Refresh(RefreshRequest{RefreshToken: auth.Token.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestChangePasswordAndEnsureAdmin(t *testing.T) {
	svc := newAuthFixture(t)
	user, err := svc.Register(validRegistration())
	require.NoError(t, err)
	actor := Actor{UserID: user.ID, Email: user.Email}

	err = svc.ChangePassword(actor, ChangePasswordRequest{CurrentPassword: "nope12", NewPassword: "newpass2"})
	assertKind(t, err, ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(actor, ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "newpass2"}))
	_, err = svc.Login(LoginRequest{Email: user.Email, Password: "newpass2"})
	require.NoError(t, err)

	require.NoError(t, svc.EnsureAdmin("admin@example.com", "admin123"))
	require.NoError(t, svc.EnsureAdmin("admin@example.com", "admin123"))
	auth, err := svc.Login(LoginRequest{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, auth.User.IsAdmin)
	assert.Equal(t, 2, auth.User.ID)
}

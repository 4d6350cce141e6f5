package service_test

import (
	"context"
	"testing"

	"urlaubsplanner/internal/model"
	"urlaubsplanner/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

func seedLoginUser(t *testing.T, f *fixture, username, password string, active bool) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Username:          username,
		Password:          string(hashed),
		FullName:          "Test " + username,
		Role:              model.RoleEmployee,
		TotalVacationDays: 30,
		UsedVacationDays:  4,
		Active:            active,
	}
	require.NoError(t, f.db.Create(user).Error)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	seedLoginUser(t, f, "max", "geheim", true)
	svc := service.NewAuthService(f.users, testSecret, testClock())

	resp, err := svc.Login(context.Background(), service.LoginRequest{Username: "max", Password: "geheim"})
	require.NoError(t, err)

	assert.Equal(t, "max", resp.Username)
	assert.Equal(t, "EMPLOYEE", resp.Role)
	assert.Equal(t, 26, resp.RemainingVacationDays)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return testSecret, nil
	}, jwt.WithTimeFunc(testClock()))
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "max", claims["username"])
	assert.Equal(t, "EMPLOYEE", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	seedLoginUser(t, f, "max", "geheim", true)
	svc := service.NewAuthService(f.users, testSecret, testClock())

	_, err := svc.Login(context.Background(), service.LoginRequest{Username: "max", Password: "falsch"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newFixture(t)
	svc := service.NewAuthService(f.users, testSecret, testClock())

	_, err := svc.Login(context.Background(), service.LoginRequest{Username: "ghost", Password: "geheim"})
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	seedLoginUser(t, f, "max", "geheim", false)
	svc := service.NewAuthService(f.users, testSecret, testClock())

	_, err := svc.Login(context.Background(), service.LoginRequest{Username: "max", Password: "geheim"})
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

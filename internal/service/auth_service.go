package service

import (
	"context"
	"errors"
	"time"

	"urlaubsplanner/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is deliberately the same for unknown username
// and wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token                 string `json:"token"`
	Username              string `json:"username"`
	FullName              string `json:"full_name"`
	Role                  string `json:"role"`
	TotalVacationDays     int    `json:"total_vacation_days"`
	UsedVacationDays      int    `json:"used_vacation_days"`
	RemainingVacationDays int    `json:"remaining_vacation_days"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}

type authService struct {
	users  repository.UserRepository
	secret []byte
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, secret []byte, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{users: users, secret: secret, now: now}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if isRecordNotFound(err) {
			return LoginResponse{}, ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return LoginResponse{}, ErrInvalidCredentials
	}

	if !user.Active {
		return LoginResponse{}, statef("account is deactivated: %s", user.Username)
	}

	issued := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      issued.Unix(),
		"exp":      issued.Add(24 * time.Hour).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return LoginResponse{}, errors.New("failed to generate token")
	}

	return LoginResponse{
		Token:                 signed,
		Username:              user.Username,
		FullName:              user.FullName,
		Role:                  string(user.Role),
		TotalVacationDays:     user.TotalVacationDays,
		UsedVacationDays:      user.UsedVacationDays,
		RemainingVacationDays: user.RemainingVacationDays(),
	}, nil
}

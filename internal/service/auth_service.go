package service

import (
	"context"
	"time"

	"go-cinema-ticketing/config"
	"go-cinema-ticketing/internal/auth"
	"go-cinema-ticketing/internal/model"
	"go-cinema-ticketing/internal/repository"
	apperrors "go-cinema-ticketing/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req model.SignUpRequest) (*model.User, error)
	Login(ctx context.Context, req model.SignInRequest) (*model.TokenResponse, error)
}

type AuthServiceImpl struct {
	users repository.UserRepository
	cfg   config.AuthConfig
}

func NewAuthService(users repository.UserRepository, cfg config.AuthConfig) AuthService {
	return &AuthServiceImpl{
		users: users,
		cfg:   cfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req model.SignUpRequest) (*model.User, error) {
	hash, err := auth.HashPassword(req.Password, s.cfg.BCryptCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	})
}

func (s *AuthServiceImpl) Login(ctx context.Context, req model.SignInRequest) (*model.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		// Don't leak whether the email exists.
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	ttl := time.Duration(s.cfg.AccessTTLMin) * time.Minute
	token, err := auth.NewAccessToken(s.cfg.JWTSecret, user, ttl)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken: token.Token,
		ExpiresAt:   token.Exp,
	}, nil
}

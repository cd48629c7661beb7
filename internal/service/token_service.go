package service

import (
	"context"

	"github.com/dtroode/authgate/internal/logger"
	"github.com/dtroode/authgate/internal/model"
)

// TokenService resolves identity claims from bearer tokens.
type TokenService struct {
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewTokenService(tokenManager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{tokenManager: tokenManager, logger: logger}
}

// GetClaims validates the token and returns its claims.
func (s *TokenService) GetClaims(ctx context.Context, token string) (model.Claims, error) {
	claims, err := s.tokenManager.Parse(token)
	if err != nil {
		s.logger.DebugContext(ctx, "Token service: token rejected",
			"error", err.Error())
		return model.Claims{}, model.ErrInvalidToken
	}
	return claims, nil
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authgate/internal/model"
)

// TokenService is a mock of the Access Guard's token service dependency.
type TokenService struct {
	mock.Mock
}

func (m *TokenService) GetClaims(ctx context.Context, token string) (model.Claims, error) {
	ret := m.Called(ctx, token)
	return ret.Get(0).(model.Claims), ret.Error(1)
}

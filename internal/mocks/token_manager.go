package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authgate/internal/model"
)

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) Issue(userID uuid.UUID, email string) (string, error) {
	ret := m.Called(userID, email)
	return ret.String(0), ret.Error(1)
}

func (m *TokenManager) Parse(token string) (model.Claims, error) {
	ret := m.Called(token)
	return ret.Get(0).(model.Claims), ret.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/authgate/internal/model"
)

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ret := m.Called(ctx, email)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.NewUser) (model.User, error) {
	ret := m.Called(ctx, user)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (m *UserStore) Ping(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

package mocks

import "github.com/stretchr/testify/mock"

// PasswordHasher is a mock of model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func (m *PasswordHasher) Hash(plaintext string) (string, error) {
	ret := m.Called(plaintext)
	return ret.String(0), ret.Error(1)
}

func (m *PasswordHasher) Verify(plaintext, hash string) bool {
	ret := m.Called(plaintext, hash)
	return ret.Bool(0)
}

package mocks

import (
	"net"
	"testing"

	"github.com/stretchr/testify/mock"
)

// SecurityLayer is a mock of model.SecurityLayer.
type SecurityLayer struct {
	mock.Mock
}

// NewSecurityLayer creates a SecurityLayer mock that asserts its expectations on cleanup.
func NewSecurityLayer(t *testing.T) *SecurityLayer {
	m := &SecurityLayer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	ret := m.Called(protocol, addr)
	ln, _ := ret.Get(0).(net.Listener)
	return ln, ret.Error(1)
}

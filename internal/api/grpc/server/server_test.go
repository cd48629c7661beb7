package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/dtroode/authgate/internal/mocks"
)

func TestGRPCServer_Address(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestGRPCServer_Stop(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), ":0")
	err := s.Stop(context.Background())
	assert.NoError(t, err)
}

func TestGRPCServer_Start_ListenError(t *testing.T) {
	sec := mocks.NewSecurityLayer(t)
	sec.On("Listen", "tcp", ":0").Return(nil, errors.New("address in use"))

	err := NewGRPCServer(grpc.NewServer(), ":0").Start(sec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestGRPCServer_Start_ListensAndServes(t *testing.T) {
	t.Parallel()

	gs := grpc.NewServer()
	srv := NewGRPCServer(gs, ":0")
	sec := mocks.NewSecurityLayer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan struct{})
	sec.On("Listen", "tcp", ":0").Return(ln, nil).Run(func(args mock.Arguments) { close(done) })

	served := make(chan error, 1)
	go func() { served <- srv.Start(sec) }()
	<-done
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-served:
		// Stop may win the race against Serve.
		if err != nil {
			assert.ErrorIs(t, err, grpc.ErrServerStopped)
		}
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}

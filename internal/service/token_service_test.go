package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authgate/internal/mocks"
	"github.com/dtroode/authgate/internal/model"
	"github.com/dtroode/authgate/internal/testutil"
)

func TestTokenService_GetClaims(t *testing.T) {
	tm := &mocks.TokenManager{}
	want := model.Claims{UserID: uuid.New(), Email: "a@b.c"}
	tm.On("Parse", "good").Return(want, nil)
	tm.On("Parse", "bad").Return(model.Claims{}, errors.New("signature is invalid"))

	s := NewTokenService(tm, testutil.MakeNoopLogger())

	got, err := s.GetClaims(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.GetClaims(context.Background(), "bad")
	require.ErrorIs(t, err, model.ErrInvalidToken)
	assert.NotContains(t, err.Error(), "signature")
}

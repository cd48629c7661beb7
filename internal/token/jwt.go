package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/authgate/internal/model"
)

// Claims represents JWT claims with user ID and email.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// Option configures a JWT token manager.
type Option func(*JWT)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(j *JWT) {
		j.ttl = ttl
	}
}

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string, opts ...Option) (*JWT, error) {
	if secretKey == "" {
		return nil, errors.New("jwt secret key is empty")
	}

	j := &JWT{
		secretKey: []byte(secretKey),
		ttl:       model.TokenTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

// Issue creates a signed access token for the user.
func (j *JWT) Issue(userID uuid.UUID, email string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// Parse validates the token signature and expiry and returns its claims.
// Any failure is reported as model.ErrInvalidToken.
func (j *JWT) Parse(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !token.Valid {
		return model.Claims{}, model.ErrInvalidToken
	}
	if claims.UserID == uuid.Nil || claims.ExpiresAt == nil {
		return model.Claims{}, model.ErrInvalidToken
	}

	result := model.Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}

	return result, nil
}

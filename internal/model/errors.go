package model

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidToken = errors.New("invalid token")

	ErrPasswordTooLong = errors.New("password is too long")
)

package app

import (
	"errors"

	"typist/internal/repository"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = repository.ErrNotFound
	ErrIntegrity         = repository.ErrIntegrity
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("administrator privileges required")
)

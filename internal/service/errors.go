package service

import (
	"errors"

	"kairos-api/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserInactive       = errors.New("user inactive")
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidAnswer      = errors.New("invalid answer")
	ErrSessionMode        = errors.New("operation not allowed for session mode")
	ErrSessionClosed      = errors.New("session already completed")
)

// notFound traduce repository.ErrNotFound al error del servicio y deja
// pasar el resto.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

package types

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrBackend           = errors.New("backend error")
	ErrConfiguration     = errors.New("server configuration error")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(entity string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, entity)
}

func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

func InvalidTransition(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Backend marks a store or broker failure. The cause is kept for logging only.
func Backend(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrBackend, err)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSummaryNotFound = errors.New("summary not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrScoreAlreadySet = errors.New("score already assigned")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrTemporary       = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ValidationError carries a client-facing message for ErrInvalidInput failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PublicMessage returns the client-facing message embedded in err, if any.
func PublicMessage(err error) (string, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message, true
	}
	return "", false
}

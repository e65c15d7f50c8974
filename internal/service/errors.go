package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/prepnest/lms-backend/internal/dto"
)

// Error taxonomy shared by all services. Controllers map these onto HTTP
// statuses; anything not matching falls through as a generic server error.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrNotAssigned = errors.New("not assigned to this subject")
	ErrNoLinkage   = errors.New("no linkage")
	ErrInvalidAuth = errors.New("invalid credentials")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// asNotFound translates the repository layer's record-not-found into the
// service taxonomy; any other error passes through untouched.
func asNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr(what)
	}
	return err
}

// LockedError rejects a mutation against a passed (locked) ledger entry.
// The stored result travels with the rejection so the caller can render it
// without a second read.
type LockedError struct {
	Reason string
	Result dto.AttemptResultDTO
}

func (e *LockedError) Error() string {
	return e.Reason
}

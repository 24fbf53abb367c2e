package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrCanceled         = errors.New("operation canceled")

	// Service-level errors.
	ErrorInternal        = errors.New("internal error")
	ErrValidationFailed  = errors.New("data entered is not valid")
	ErrEmailInUse        = errors.New("email is already in use")
	ErrUserNotFound      = errors.New("user not found")
	ErrPasswordIncorrect = errors.New("password incorrect")

	// Gate outcomes.
	ErrNoToken        = errors.New("no token provided")
	ErrInvalidToken   = errors.New("invalid token")
	ErrUnknownSubject = errors.New("unknown subject")

	// Startup.
	ErrMissingSecret = errors.New("signing secret is not configured")
)

// Token verification failures. Each one wraps ErrInvalidToken, so callers at
// the edge can collapse them with errors.Is(err, ErrInvalidToken).
var (
	ErrTokenExpired          = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenMalformed        = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature invalid", ErrInvalidToken)
)

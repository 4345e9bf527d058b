package domain

import "errors"

var (
	// ErrNoAccount indicates that no account has been registered on this device.
	ErrNoAccount = errors.New("no account registered")
	// ErrInvalidCredentials indicates that the email or password did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrIndexOutOfRange indicates a mutation addressed a non-existent activity.
	ErrIndexOutOfRange = errors.New("activity index out of range")
	// ErrKindMismatch indicates a key holds a value of another kind.
	ErrKindMismatch = errors.New("value kind mismatch")
)

// ValidationError reports the first form field that failed validation.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

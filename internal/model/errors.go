package model

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist or is not
	// owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for malformed or empty request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidDate is returned for dates that do not parse as YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date format")
	// ErrPastDate is returned for task dates strictly earlier than today.
	ErrPastDate = errors.New("date cannot be in the past")
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrAuthenticationFailed is returned for login failures. Unknown user
	// and wrong password both map here.
	ErrAuthenticationFailed = errors.New("invalid username or password")
	// ErrUnauthenticated is returned when no valid session backs a request.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError is an ErrInvalidInput carrying a user-facing message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Is makes errors.Is(err, ErrInvalidInput) hold for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

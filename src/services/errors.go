package services

import "errors"

// Sentinel errors for explicit error handling.
// Handlers map them to HTTP statuses with errors.Is instead of string matching.

var (
	// ErrAdminNotFound indicates the requested administrator does not exist
	ErrAdminNotFound = errors.New("admin not found")

	// ErrResultNotFound indicates the requested RUT process result does not exist
	ErrResultNotFound = errors.New("rut process result not found")

	// ErrEmailTaken indicates another administrator already uses the email
	ErrEmailTaken = errors.New("admin with this email already exists")

	// ErrInvalidCredentials indicates authentication failed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountDeactivated indicates the administrator exists but is inactive
	ErrAccountDeactivated = errors.New("account is deactivated")

	// ErrInvalidID indicates an identifier that is not a valid UUID
	ErrInvalidID = errors.New("invalid id format")

	// ErrSelfModification indicates an administrator tried to delete or
	// deactivate their own account
	ErrSelfModification = errors.New("cannot modify own account")

	// ErrLastSuperAdmin indicates a change would leave no super administrator
	ErrLastSuperAdmin = errors.New("cannot demote the last super admin")
)

// ValidationError reports malformed input. Message is user-facing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a user-facing message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

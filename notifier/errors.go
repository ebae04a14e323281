package notifier

import "fmt"

// NotFoundError indicates that a notification type name has no catalog entry.
// It generally points at a programming or configuration error, so callers are
// expected to let it surface rather than recover from it.
type NotFoundError struct {
	message string
}

// Error returns the error message for a NotFoundError.
func (e NotFoundError) Error() string {
	return e.message
}

// NewNotFoundError returns a new error indicating that a notification type
// couldn't be found.
func NewNotFoundError(formatString string, a ...interface{}) NotFoundError {
	return NotFoundError{message: fmt.Sprintf(formatString, a...)}
}

// InvalidArgumentError indicates that a notification type reference was
// neither a name nor a resolved notification type.
type InvalidArgumentError struct {
	message string
}

// Error returns the error message for an InvalidArgumentError.
func (e InvalidArgumentError) Error() string {
	return e.message
}

// NewInvalidArgumentError returns a new error indicating that an argument had
// an unexpected shape.
func NewInvalidArgumentError(formatString string, a ...interface{}) InvalidArgumentError {
	return InvalidArgumentError{message: fmt.Sprintf(formatString, a...)}
}

package apperror

import "fmt"

// AppError is the error type every service returns across package
// boundaries. Handlers map it to an HTTP response via ToHTTP; anything
// that is not an AppError surfaces as an internal error.
type AppError struct {
	Code       string // stable machine-readable code, e.g. INVALID_INPUT
	Message    string // safe to show to the caller
	HTTPStatus int
	Err        error // underlying cause, if any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap lets errors.Is and errors.As see through to the cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds a sentinel AppError. Module error packages declare these
// as package vars so callers can compare with errors.Is.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap attaches code, message and status to an underlying error.
// Returns nil when err is nil so it can wrap call results directly.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

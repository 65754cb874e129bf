package serrors

import "fmt"

// Stable reason codes surfaced to callers. Calling layers key their
// behavior off the code, never off the message text.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeRoleInsufficient   = "ROLE_INSUFFICIENT"
	CodeOutOfScope         = "OUT_OF_SCOPE"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeConfigConflict     = "CONFIG_CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
)

type Error struct {
	Code    string
	Message string
	Details string
}

func NewError(code, message, details string) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

func (e *Error) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

// Is matches errors by code so that sentinel instances compare equal to
// detail-carrying copies of themselves.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails returns a copy of the error carrying extra context.
func (e *Error) WithDetails(format string, args ...any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: fmt.Sprintf(format, args...)}
}

// Code extracts the stable reason code from err, unwrapping as needed.
// Returns the empty string for non-coded errors.
func Code(err error) string {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

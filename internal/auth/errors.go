package auth

import "errors"

var (
	ErrMissingEmail     = errors.New("email not found from identity provider")
	ErrDomainNotAllowed = errors.New("invalid email domain")
	ErrStoreUnavailable = errors.New("employee store unavailable")
	ErrTokenSigning     = errors.New("token signing failed")
)

// Failure is a rejected authentication attempt. Reason is safe to return
// to the client; Err, when set, is the internal cause and is only logged.
type Failure struct {
	Reason string
	Err    error
}

func Fail(reason string, err error) *Failure {
	return &Failure{Reason: reason, Err: err}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Reason
	}
	return f.Reason + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsPolicyFailure reports whether err is a user-caused rejection that
// should be answered as 401 rather than an internal error.
func IsPolicyFailure(err error) bool {
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrTokenSigning) {
		return false
	}
	var f *Failure
	return errors.Is(err, ErrMissingEmail) ||
		errors.Is(err, ErrDomainNotAllowed) ||
		errors.As(err, &f)
}

// PublicMessage returns the short client-facing message for a policy
// failure. Non-policy errors never expose their detail.
func PublicMessage(err error) string {
	var f *Failure
	switch {
	case errors.As(err, &f):
		return f.Reason
	case errors.Is(err, ErrMissingEmail):
		return ErrMissingEmail.Error()
	case errors.Is(err, ErrDomainNotAllowed):
		return ErrDomainNotAllowed.Error()
	default:
		return "internal server error"
	}
}

// Package errs carries the status code a handler wants for an expected
// failure through the middleware chain.
package errs

import (
	"errors"
	"fmt"
)

// Response is the body written for a failed request.
type Response struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
}

// Trusted is an error whose message is safe to return to the caller
// together with the status it maps to.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted attaches an HTTP status to an error the handler expected.
func NewTrusted(err error, status int) error {
	return &Trusted{Err: err, Status: status}
}

// NewTrustedf formats a new trusted error.
func NewTrustedf(status int, format string, args ...any) error {
	return &Trusted{Err: fmt.Errorf(format, args...), Status: status}
}

func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted reports whether a trusted error is in the chain.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns the trusted error in the chain or nil.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

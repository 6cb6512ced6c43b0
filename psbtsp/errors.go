package psbtsp

import "errors"

// Sentinel errors backing PsbtError.
var (
	ErrMalformedField = errors.New("psbtsp: proprietary field has the wrong length or shape")
	ErrMissingAmount  = errors.New("psbtsp: output carries a silent-payment code but no resolvable amount")
	ErrMismatchedCode = errors.New("psbtsp: output's silent-payment code does not decode to a version-0 code")
)

type PsbtError struct {
	Err error
}

func (e *PsbtError) Error() string { return e.Err.Error() }
func (e *PsbtError) Unwrap() error { return e.Err }

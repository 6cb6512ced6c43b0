package sender

import "errors"

// Sentinel errors returned while building sender-side outputs. The
// per-input classification/key errors live in sharedsecret; this
// package only adds the one failure mode specific to grouping
// recipients.
var ErrNoPrivateSum = errors.New("sender: input sum has no private key; cannot compute shared secrets")

// SenderError wraps one of the sentinels above, or a *sharedsecret.ShareError
// surfaced unchanged from ComputeInputSum/SenderSecret.
type SenderError struct {
	Err error
}

func (e *SenderError) Error() string { return e.Err.Error() }
func (e *SenderError) Unwrap() error { return e.Err }

package efris

import (
	"errors"
	"fmt"
)

var (
	ErrNoPrivateKey = errors.New("efris: private key not loaded")
	ErrNoSessionKey = errors.New("efris: no active symmetric key")
)

// ApiError is a business-level rejection from the gateway, carrying the
// original returnCode/returnMessage from returnStateInfo. Most codes are
// permanent validation failures and must not be retried.
type ApiError struct {
	Interface string // interface code of the failed request, e.g. T109
	Code      string
	Message   string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("EFRIS %s returned code %s: %s", e.Interface, e.Code, e.Message)
}

// HandshakeError wraps a failure of one step of the session handshake.
// No partial session state survives it; the caller retries the whole
// handshake, never a single step.
type HandshakeError struct {
	Step string // "time sync", "key exchange" or "registration"
	Err  error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("EFRIS handshake failed at %s: %v", e.Step, e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is one of the gateway's transient
// concurrency/cache-limit rejections. Everything else, including network
// failures, is left to the caller's judgement.
func IsRetryable(err error) bool {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case CodeServerBusy, CodeCacheLimit:
		return true
	}
	return false
}

// IsKeyExpired reports whether err indicates that the cached symmetric
// key is no longer accepted and a fresh key exchange is required.
func IsKeyExpired(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.Code == CodeKeyExpired
}

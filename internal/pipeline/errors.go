// Package pipeline defines the error kinds shared by the decode, precondition,
// spectrogram, peak, hash and catalog stages, and the policy for translating
// them into client or server failures at the transport boundary.
package pipeline

import "errors"

// ErrorKind tags an error as a client-input failure or a server/store
// failure so a transport layer can pick the right status code without
// inspecting error text.
type ErrorKind int

const (
	// KindDecode marks malformed or truncated audio, or an unsupported
	// sample format.
	KindDecode ErrorKind = iota
	// KindEmptyInput marks zero-length PCM after decoding.
	KindEmptyInput
	// KindTooShort marks fewer than the window size of samples after
	// resampling, so no spectrogram frames can be produced.
	KindTooShort
	// KindStore marks a persistence backend failure during insert or scan.
	KindStore
)

// Error is a tagged error carrying one of the ErrorKind values above.
type Error struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// IsClientError reports whether err represents bad input (decode failure,
// empty input, or a too-short clip) as opposed to a store/server failure.
func IsClientError(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == KindDecode || pe.Kind == KindEmptyInput || pe.Kind == KindTooShort
	}
	return false
}

// IsStoreError reports whether err represents a persistence backend failure.
func IsStoreError(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == KindStore
	}
	return false
}

// NewDecodeError wraps err as a DecodeError with msg as context.
func NewDecodeError(msg string, err error) error {
	return &Error{Kind: KindDecode, msg: msg, err: err}
}

// ErrEmptyInput is returned when decoding yields zero PCM samples.
var ErrEmptyInput = &Error{Kind: KindEmptyInput, msg: "empty audio input"}

// ErrTooShort is returned when fewer than one analysis window of samples
// remains after resampling.
var ErrTooShort = &Error{Kind: KindTooShort, msg: "clip too short for analysis"}

// NewStoreError wraps err as a StoreError with msg as context.
func NewStoreError(msg string, err error) error {
	return &Error{Kind: KindStore, msg: msg, err: err}
}

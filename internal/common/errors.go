// Package common defines shared constants and sentinel errors used across
// the notes client layers. Callers should use errors.Is to match these
// values; concrete failures wrap them with fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Transport-level errors.
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrProtocol is a 2xx answer the client cannot use: an undecodable
	// body or a required field missing.
	ErrProtocol = errors.New("unexpected response from service")

	// Session errors.
	ErrAuth         = errors.New("invalid credentials")
	ErrAuthRequired = errors.New("authentication required")

	// Payload and entity errors.
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Summary generation failed; note state is unaffected.
	ErrSummary = errors.New("summary generation failed")

	// Client-side flow control.
	ErrNotConfirmed  = errors.New("action not confirmed")
	ErrModalBusy     = errors.New("another modal is already open")
	ErrSubmitPending = errors.New("submission already in progress")
	ErrPending       = errors.New("request already pending")
)

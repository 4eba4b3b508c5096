package model

import "fmt"

// ValidationError reports a missing or malformed request field. It is
// raised before any outbound call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: missing %s", e.Field)
}

// ProviderExchangeError carries a non-2xx token endpoint response. Body
// is the raw upstream text, returned verbatim in the error envelope.
type ProviderExchangeError struct {
	Platform   Platform
	StatusCode int
	Body       string
}

func (e *ProviderExchangeError) Error() string {
	return fmt.Sprintf("%s token exchange failed: status %d", e.Platform, e.StatusCode)
}

// ProviderPublishError carries a non-2xx response from a publish,
// profile, or page-token call. Step names which of the sequential
// calls failed.
type ProviderPublishError struct {
	Platform   Platform
	Step       string
	StatusCode int
	Body       string
}

func (e *ProviderPublishError) Error() string {
	return fmt.Sprintf("%s publish failed at %s: status %d", e.Platform, e.Step, e.StatusCode)
}

// MissingPageTokenError means the page-token lookup succeeded but the
// response carried no access_token field. The feed post is never
// attempted in that case.
type MissingPageTokenError struct {
	PageID string
}

func (e *MissingPageTokenError) Error() string {
	return fmt.Sprintf("page %s returned no access_token", e.PageID)
}

// PersistenceError wraps a credential store failure. It is surfaced
// even when the provider-side exchange already succeeded; the upstream
// code is single-use so the operation cannot be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("credential store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

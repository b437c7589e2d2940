package storage

import "errors"

// ErrNotFound is returned when a validated path does not reference an
// existing regular file.
var ErrNotFound = errors.New("asset not found")

// SecurityError reports input that failed a safety invariant: bad path
// shape, traversal attempt, or a disallowed extension, MIME type or size.
// Handlers map it to HTTP 403 without exposing filesystem details.
type SecurityError struct {
	Reason string
}

func (e *SecurityError) Error() string {
	return e.Reason
}

// ConfigError reports startup-time misconfiguration such as a missing base
// path or uncreatable storage directories. It is fatal: the application must
// fail its own startup.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

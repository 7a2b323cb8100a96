package services

import (
	"context"
	"fmt"
)

// TokenProvider supplies a currently-valid bearer token for outbound calls.
//
// Implemented by [auth.Manager]; EnsureValid may refresh and persist tokens
// as a side effect.
type TokenProvider interface {
	// EnsureValid guarantees a non-expired access token or fails.
	EnsureValid(ctx context.Context) error

	// Token returns the current access token.
	Token() (string, error)
}

// Result is the normalized outcome of a successful authenticated call.
type Result struct {
	Status  int
	Body    []byte
	Payload map[string]any

	// Empty marks a 204 or an empty 2xx body: success with nothing to decode.
	Empty bool
}

// APIError is a well-formed non-2xx provider response with a parseable JSON
// body. The payload is surfaced verbatim so callers keep the provider's
// diagnostic detail.
type APIError struct {
	Status  int
	Payload map[string]any
}

func (e *APIError) Error() string {
	if detail, ok := e.Payload["error"].(map[string]any); ok {
		if msg, ok := detail["message"].(string); ok && msg != "" {
			return fmt.Sprintf("spotify API error: status %d: %s", e.Status, msg)
		}
	}
	return fmt.Sprintf("spotify API error: status %d", e.Status)
}

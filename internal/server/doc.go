// Package server provides the loopback HTTP plumbing for the interactive
// authorization flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Handler
//
// [CallbackHandler] receives the provider's redirect after the user approves
// access in the browser. It validates the state parameter (CSRF protection)
// and hands the raw redirect URL through a channel; the authorization code
// exchange happens elsewhere, against the token lifecycle manager. The
// handler only processes one callback to prevent replay.
//
// # Usage
//
// When the user runs the login command, [CallbackServer] starts a temporary
// HTTP server on the configured loopback port, serves exactly one callback,
// and shuts down once the result is collected.
package server

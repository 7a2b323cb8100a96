// Package auth owns the OAuth2 token lifecycle for the Spotify Web API.
//
// # Token Lifecycle
//
// The [Manager] holds the current [Credential] (access token, refresh token,
// absolute expiry) behind a mutex and decides when a token is fresh, stale, or
// unobtainable. Expiry is computed on read as a pure function of the stored
// expiry instant, the current time, and [ExpiryMargin]; there are no timers.
//
// # Grant Exchanges
//
// Both grant exchanges (authorization-code and refresh-token) go through
// [oauth2.Config], which POSTs form-encoded bodies to the token endpoint with
// HTTP Basic auth built from the client id and secret. A successful exchange
// mutates the in-memory credential and triggers a full persist through the
// [Store]; a failed exchange leaves the prior state untouched.
//
// # Concurrency
//
// [Manager.EnsureValid] is safe for concurrent use. The mutex is held across
// the refresh exchange, so at most one refresh is in flight per credential set
// and concurrent callers observing a stale token wait for that refresh's
// outcome instead of issuing duplicates. Spotify may rotate refresh tokens,
// which makes duplicate concurrent refreshes a correctness hazard.
//
// # Persistence
//
// [FileStore] serializes the credential as a small JSON object with an RFC 3339
// expiry. Writes go to a temp file followed by a rename, so a crash mid-write
// leaves the previous contents intact.
package auth

// Package services implements the authenticated request layer over the
// Spotify Web API.
//
// # Request Pipeline
//
// [Client.Call] is the single generic path every playback operation goes
// through: it asks the [TokenProvider] for a currently-valid access token
// (which may trigger a transparent refresh), attaches the bearer header,
// executes the request with a bounded timeout, and normalizes the response:
//
//   - 204, or 2xx with an empty body → [Result] with Empty set
//   - 2xx with a JSON body → [Result] with the decoded payload
//   - non-2xx with a parseable JSON body → [*APIError] carrying that body,
//     so callers keep the provider's diagnostic detail
//   - transport failure or unparseable error body → wrapped
//     [shared.ErrAPIRequest], logged, never retried here
//
// # The Skip Exception
//
// [Client.SkipTrack] deliberately bypasses Call's status interpretation:
// Spotify returns 200-with-body where 204-empty is documented for the skip
// endpoint, so a completed request counts as success there. Its looser
// contract stays confined to that one named operation.
//
// # Error Handling
//
// Typed errors come from the shared package ([shared.ErrNotAuthenticated],
// [shared.ErrAPIRequest]) or are [*APIError] values; transport exceptions
// never escape uncaught.
package services

package auth

import "time"

// ExpiryMargin is the safety window before the provider's stated expiry during
// which a token is proactively treated as stale, avoiding races with in-flight
// requests.
const ExpiryMargin = 5 * time.Minute

// Credential is the token triple owned by the [Manager].
//
// Serialized as-is to the token file: ExpiresAt marshals to RFC 3339.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Fresh reports whether the access token is usable at the given instant.
//
// A token with no known expiry is never fresh; a token is stale from
// ExpiryMargin before its stated expiry onward, inclusive.
func (c Credential) Fresh(now time.Time) bool {
	if c.AccessToken == "" || c.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(c.ExpiresAt.Add(-ExpiryMargin))
}

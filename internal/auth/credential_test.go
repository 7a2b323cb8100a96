package auth

import (
	"testing"
	"time"
)

func TestCredential(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	t.Run("Fresh", func(t *testing.T) {
		t.Run("expiry well in the future", func(t *testing.T) {
			cred := Credential{AccessToken: "tok", ExpiresAt: now.Add(time.Hour)}
			if !cred.Fresh(now) {
				t.Error("expected token expiring in an hour to be fresh")
			}
		})

		t.Run("expiry just outside the margin", func(t *testing.T) {
			cred := Credential{AccessToken: "tok", ExpiresAt: now.Add(ExpiryMargin + time.Second)}
			if !cred.Fresh(now) {
				t.Error("expected token one second outside the margin to be fresh")
			}
		})

		t.Run("expiry exactly at the margin is stale", func(t *testing.T) {
			cred := Credential{AccessToken: "tok", ExpiresAt: now.Add(ExpiryMargin)}
			if cred.Fresh(now) {
				t.Error("expected token exactly at the margin boundary to be stale")
			}
		})

		t.Run("expiry within the margin", func(t *testing.T) {
			cred := Credential{AccessToken: "tok", ExpiresAt: now.Add(time.Minute)}
			if cred.Fresh(now) {
				t.Error("expected token expiring in a minute to be stale")
			}
		})

		t.Run("expiry in the past", func(t *testing.T) {
			cred := Credential{AccessToken: "tok", ExpiresAt: now.Add(-time.Hour)}
			if cred.Fresh(now) {
				t.Error("expected expired token to be stale")
			}
		})

		t.Run("no expiry recorded", func(t *testing.T) {
			cred := Credential{AccessToken: "tok"}
			if cred.Fresh(now) {
				t.Error("a token without a known expiry must be treated as expired")
			}
		})

		t.Run("no access token", func(t *testing.T) {
			cred := Credential{ExpiresAt: now.Add(time.Hour)}
			if cred.Fresh(now) {
				t.Error("expected empty credential to be stale")
			}
		})
	})
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/spx/internal/auth"
	"github.com/desertthunder/spx/internal/server"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

const authorizeTimeout = 2 * time.Minute

// AuthLogin acquires a usable token set: saved tokens when possible,
// the interactive browser flow otherwise.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	force := cmd.Bool("force")
	manual := cmd.Bool("manual")

	var interact auth.Authorizer
	if manual {
		interact = r.manualAuthorizer()
	} else {
		interact = r.browserAuthorizer()
	}

	if err := r.auth.Authorize(ctx, force, interact); err != nil {
		return err
	}

	cred := r.auth.Credential()

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n", r.config.TokenPath())
	r.writePlain("Access token valid until %s\n", cred.ExpiresAt.Format(time.RFC1123))

	return nil
}

// AuthStatus reports the current token state without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	cred := r.auth.Credential()
	if cred.AccessToken == "" {
		r.writePlain("✗ Not authenticated. Run 'spx auth login' to authorize.\n")
		return nil
	}

	if cred.Fresh(time.Now()) {
		r.writePlain("✓ Authenticated\n")
	} else {
		r.writePlain("⚠ Access token stale; it will be refreshed on the next API call\n")
	}
	r.writePlain("Expires: %s\n", cred.ExpiresAt.Format(time.RFC1123))
	if cred.RefreshToken == "" {
		r.writePlain("⚠ No refresh token held\n")
	}

	return nil
}

// browserAuthorizer runs the loopback-callback flow: start a local HTTP
// server, open the consent screen in a browser, and wait for the redirect.
func (r *Runner) browserAuthorizer() auth.Authorizer {
	return func(ctx context.Context, authURL string) (string, error) {
		state, err := stateFromAuthURL(authURL)
		if err != nil {
			return "", err
		}

		handler := server.NewCallbackHandler(state)
		router := server.NewBasicRouter()
		router.Use(server.Logging(r.logger))
		router.Handler(handler)

		srv := server.NewCallbackServer(r.config.Server.Port, router, r.logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				r.logger.Warn("error shutting down callback server", "error", err)
			}
		}()

		r.writePlain("→ Opening browser for Spotify authorization...\n")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}

		r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

		timeout := time.NewTimer(authorizeTimeout)
		defer timeout.Stop()

		select {
		case result := <-handler.Result():
			if result.Error() != nil {
				return "", result.Error()
			}
			return result.RedirectURL, nil
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timeout.C:
			return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
		}
	}
}

// manualAuthorizer prints the consent URL and reads the pasted redirect URL
// from stdin, for hosts without a browser or a reachable loopback port.
func (r *Runner) manualAuthorizer() auth.Authorizer {
	return func(ctx context.Context, authURL string) (string, error) {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
		r.writePlain("After approving, paste the full redirect URL here: ")

		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read redirect URL: %w", err)
		}

		return strings.TrimSpace(line), nil
	}
}

// stateFromAuthURL recovers the state token embedded in the authorization URL
// so the callback handler can validate the redirect.
func stateFromAuthURL(authURL string) (string, error) {
	parsed, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("invalid authorization URL: %w", err)
	}

	state := parsed.Query().Get("state")
	if state == "" {
		return "", fmt.Errorf("%w: authorization URL missing state token", shared.ErrInvalidArgument)
	}

	return state, nil
}

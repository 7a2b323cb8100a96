package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRedirectURI must match the redirect URI registered with the
	// Spotify application.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"

	exchangeTimeout = 10 * time.Second

	// Applied when the token response omits expires_in.
	defaultExpiresIn = time.Hour
)

// DefaultScopes is the permission set requested during authorization.
var DefaultScopes = []string{
	"user-read-private",
	"user-read-email",
	"user-modify-playback-state",
	"user-read-playback-state",
}

// Authorizer drives the interactive authorization step: it receives the
// authorization URL, gets the user through the provider's consent screen by
// whatever means (browser plus local callback server, or a manual paste), and
// returns the redirect URL the provider sent the user to.
type Authorizer func(ctx context.Context, authURL string) (string, error)

// Manager owns the in-memory token state and drives the OAuth2 grant
// exchanges. Construct once per process and share by reference.
type Manager struct {
	config *oauth2.Config
	store  Store
	logger *log.Logger
	client *http.Client
	now    func() time.Time

	mu   sync.Mutex
	cred Credential
}

// NewManager creates a Manager for the given Spotify application identity.
//
// Empty client id or secret is a fatal precondition, not a recoverable state.
// A nil scopes slice requests [DefaultScopes]; an empty redirectURI uses
// [DefaultRedirectURI].
func NewManager(clientID, clientSecret, redirectURI string, scopes []string, store Store, logger *log.Logger) (*Manager, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: credential store is required", shared.ErrInvalidArgument)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if redirectURI == "" {
		redirectURI = DefaultRedirectURI
	}
	if scopes == nil {
		scopes = DefaultScopes
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
			// Spotify wants base64(client_id:client_secret) in the
			// Authorization header.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &Manager{
		config: config,
		store:  store,
		logger: logger,
		client: &http.Client{Timeout: exchangeTimeout},
		now:    time.Now,
	}, nil
}

// OAuthConfig exposes the underlying [oauth2.Config] for collaborators such as
// the callback server.
func (m *Manager) OAuthConfig() *oauth2.Config {
	return m.config
}

// AuthURL returns the authorization URL embedding client id, redirect target,
// requested scopes, response_type=code, and the given state token.
func (m *Manager) AuthURL(state string) string {
	return m.config.AuthCodeURL(state)
}

// Token returns the current access token, or [shared.ErrNotAuthenticated] if
// none is held. It does not check freshness; call [Manager.EnsureValid] first.
func (m *Manager) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred.AccessToken == "" {
		return "", shared.ErrNotAuthenticated
	}
	return m.cred.AccessToken, nil
}

// Credential returns a copy of the current token state.
func (m *Manager) Credential() Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred
}

// EnsureValid guarantees that, on a nil return, the held access token is
// outside the staleness margin.
//
// No access token held fails immediately with [shared.ErrNotAuthenticated]; a
// fresh token succeeds with zero network calls; a stale token triggers exactly
// one refresh exchange whose outcome decides the result. The lock is held
// across the refresh so concurrent callers share a single exchange.
func (m *Manager) EnsureValid(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cred.AccessToken == "" {
		return shared.ErrNotAuthenticated
	}

	if m.cred.Fresh(m.now()) {
		return nil
	}

	m.logger.Info("access token stale, refreshing")
	return m.refreshLocked(ctx)
}

// Authorize is the top-level authorization entry point.
//
// With force unset it first tries the persisted credential: loaded-and-fresh
// succeeds immediately, loaded-and-stale attempts one refresh and returns its
// outcome. A refresh failure here does not fall through to the interactive
// flow; the caller decides whether to retry with force set. Without a usable
// persisted credential (or with force set) it drives a fresh
// authorization-code exchange through the interact collaborator.
func (m *Manager) Authorize(ctx context.Context, force bool, interact Authorizer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !force {
		cred, err := m.store.Load()
		switch {
		case errors.Is(err, ErrNoCredential):
			m.logger.Info("no saved tokens found")
		case err != nil:
			m.logger.Warn("failed to load saved tokens", "error", err)
		case cred.RefreshToken == "":
			m.logger.Warn("saved tokens missing refresh token")
		default:
			m.cred = *cred
			if m.cred.Fresh(m.now()) {
				m.logger.Info("using valid cached tokens")
				return nil
			}
			m.logger.Info("saved token stale, attempting refresh")
			return m.refreshLocked(ctx)
		}
	}

	if interact == nil {
		return fmt.Errorf("%w: interactive authorization required", shared.ErrAuthFailed)
	}

	authURL := m.config.AuthCodeURL(shared.GenerateState())
	redirect, err := interact(ctx, authURL)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	code, err := ExtractCode(redirect)
	if err != nil {
		return err
	}

	tok, err := m.config.Exchange(m.exchangeContext(ctx), code)
	if err != nil {
		return fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}

	m.logger.Info("exchanged authorization code for tokens")
	m.adoptLocked(tok)
	return nil
}

// refreshLocked performs a single refresh-token exchange. Caller holds m.mu.
func (m *Manager) refreshLocked(ctx context.Context) error {
	if m.cred.RefreshToken == "" {
		return shared.ErrNoRefreshToken
	}

	source := m.config.TokenSource(m.exchangeContext(ctx), &oauth2.Token{
		RefreshToken: m.cred.RefreshToken,
	})

	tok, err := source.Token()
	if err != nil {
		m.logger.Error("token refresh failed", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	m.logger.Info("access token refreshed")
	m.adoptLocked(tok)
	return nil
}

// adoptLocked replaces the in-memory credential with the exchanged token and
// persists it. Caller holds m.mu.
func (m *Manager) adoptLocked(tok *oauth2.Token) {
	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = m.now().Add(defaultExpiresIn)
	}

	cred := Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiry,
	}

	// Providers may omit the refresh token on refresh, meaning "unchanged".
	if cred.RefreshToken == "" {
		cred.RefreshToken = m.cred.RefreshToken
	}

	m.cred = cred

	if err := m.store.Save(&cred); err != nil {
		m.logger.Warn("failed to persist tokens", "error", err)
	} else {
		m.logger.Info("tokens saved")
	}
}

// exchangeContext injects the bounded-timeout HTTP client into the context for
// oauth2's token endpoint calls.
func (m *Manager) exchangeContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, m.client)
}

// ExtractCode pulls the authorization code out of the redirect URL's query
// component.
//
// Fails explicitly with [shared.ErrNoAuthCode] when the parameter is absent or
// the URL does not parse; no token exchange is attempted in that case.
func ExtractCode(redirectURL string) (string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrNoAuthCode, err)
	}

	code := u.Query().Get("code")
	if code == "" {
		return "", shared.ErrNoAuthCode
	}

	return code, nil
}

package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
)

// Authorizer runs an interactive authorization handshake and returns the
// resulting token.
type Authorizer interface {
	Authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// Provider hands out authenticated clients for the stored credential.
type Provider struct {
	config     *oauth2.Config
	store      TokenStore
	authorizer Authorizer
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for credential events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithMetrics records refresh and authorization outcomes.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(p *Provider) {
		p.metrics = metrics
	}
}

// NewProvider creates a Provider. authorizer may be nil, in which case a
// missing credential is an AuthError.
func NewProvider(conf *oauth2.Config, store TokenStore, authorizer Authorizer, opts ...Option) *Provider {
	p := &Provider{
		config:     conf,
		store:      store,
		authorizer: authorizer,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns a valid token, refreshing or authorizing as needed. Any
// token obtained here is persisted before it is returned.
func (p *Provider) Token(ctx context.Context) (*oauth2.Token, error) {
	logger := logging.WithOperation(p.logger, "obtain_token")

	token, err := p.store.Load()
	switch {
	case errors.Is(err, ErrNoToken):
		token = nil
	case err != nil:
		return nil, &AuthError{Err: err}
	}

	if token != nil && token.Valid() {
		return token, nil
	}

	if token != nil && token.RefreshToken != "" {
		refreshed, err := p.config.TokenSource(ctx, token).Token()
		if err != nil {
			p.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultFailure)
			logger.Warn("token refresh failed", logging.Err(err))
			return nil, &AuthError{Err: fmt.Errorf("failed to refresh token: %w", err)}
		}
		p.metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultSuccess)
		if err := p.store.Save(refreshed); err != nil {
			return nil, &AuthError{Err: err}
		}
		logger.Debug("token refreshed")
		return refreshed, nil
	}

	if p.authorizer == nil {
		return nil, &AuthError{Err: errors.New("no stored credential; run the auth command first")}
	}

	fresh, err := p.authorizer.Authorize(ctx, p.config)
	if err != nil {
		p.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return nil, &AuthError{Err: fmt.Errorf("authorization failed: %w", err)}
	}
	p.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	if err := p.store.Save(fresh); err != nil {
		return nil, &AuthError{Err: err}
	}
	logger.Info("authorization completed")
	return fresh, nil
}

// TokenSource returns a token source seeded with a valid token. Tokens the
// source refreshes later in the process lifetime are written back to the
// store.
func (p *Provider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := p.Token(ctx)
	if err != nil {
		return nil, err
	}

	return oauth2.ReuseTokenSource(token, &persistingTokenSource{
		base:   p.config.TokenSource(ctx, token),
		store:  p.store,
		last:   token.AccessToken,
		logger: p.logger,
	}), nil
}

// Client returns an HTTP client that authenticates requests with the stored
// credential. The client is configured to use HTTP/1.1.
func (p *Provider) Client(ctx context.Context) (*http.Client, error) {
	ts, err := p.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				ForceAttemptHTTP2: false,
			},
		},
	}, nil
}

// persistingTokenSource saves every newly minted token.
type persistingTokenSource struct {
	base   oauth2.TokenSource
	store  TokenStore
	logger *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("failed to refresh token: %w", err)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		if err := s.store.Save(token); err != nil {
			s.logger.Warn("failed to persist refreshed token", logging.Err(err))
		}
		s.last = token.AccessToken
	}
	return token, nil
}

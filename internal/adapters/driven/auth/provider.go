package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// Ensure OAuthProvider implements the interface.
var _ driven.CredentialProvider = (*OAuthProvider)(nil)

// OAuthProvider hands out the stored credential, refreshing it through the
// OAuth client config when it has expired and writing the result back.
type OAuthProvider struct {
	store  driven.TokenStore
	config *oauth2.Config

	mu      sync.RWMutex
	cached  *domain.Credential
	revoked bool
}

// NewOAuthProvider creates a credential provider. config may be nil, in
// which case expired credentials cannot be refreshed.
func NewOAuthProvider(store driven.TokenStore, config *oauth2.Config) *OAuthProvider {
	return &OAuthProvider{
		store:  store,
		config: config,
	}
}

// Credential returns a valid credential.
func (p *OAuthProvider) Credential(ctx context.Context) (*domain.Credential, error) {
	// Fast path: cached and still valid
	p.mu.RLock()
	if p.revoked {
		p.mu.RUnlock()
		return nil, domain.ErrCredentialsRevoked
	}
	if p.cached.Valid() {
		cred := *p.cached
		p.mu.RUnlock()
		return &cred, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if p.revoked {
		return nil, domain.ErrCredentialsRevoked
	}
	if p.cached.Valid() {
		cred := *p.cached
		return &cred, nil
	}

	cred, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	if !cred.Valid() {
		if !cred.CanRefresh() {
			return nil, domain.ErrAuthExpired
		}
		if cred, err = p.refresh(ctx, cred); err != nil {
			return nil, err
		}
	}

	p.cached = cred
	out := *cred
	return &out, nil
}

// refresh exchanges the refresh token and persists the new credential.
// Caller must hold the write lock.
func (p *OAuthProvider) refresh(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	if p.config == nil {
		return nil, fmt.Errorf("%w: no OAuth client configured", domain.ErrTokenRefreshFailed)
	}

	// Only the refresh token is passed so the source always refreshes.
	source := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
			return nil, fmt.Errorf("%w: refresh token rejected", domain.ErrAuthExpired)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}

	refreshed := credentialFromToken(token)
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = cred.RefreshToken
	}
	refreshed.Scopes = cred.Scopes

	if err := p.store.Save(refreshed); err != nil {
		// The new token still works for this process.
		logger.Warn("persist refreshed token: %v", err)
	}
	logger.Debug("refreshed Google access token, expires %s", refreshed.Expiry.Format("15:04:05"))
	return refreshed, nil
}

// Revoke deletes the stored credential. Every later Credential call fails.
func (p *OAuthProvider) Revoke(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.revoked = true
	p.cached = nil
	return p.store.Delete()
}

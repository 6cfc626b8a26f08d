package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService runs the installed-app OAuth flow and manages the stored token.
type AuthService struct {
	authorizer driven.Authorizer
	tokens     driven.TokenStore
	provider   driven.CredentialProvider
}

// NewAuthService creates an auth service. authorizer may be nil when only
// status and revocation are needed.
func NewAuthService(authorizer driven.Authorizer, tokens driven.TokenStore, provider driven.CredentialProvider) *AuthService {
	return &AuthService{
		authorizer: authorizer,
		tokens:     tokens,
		provider:   provider,
	}
}

// BeginLogin generates state and a PKCE verifier and returns the consent URL.
func (s *AuthService) BeginLogin(redirectURI string) (*driving.LoginRequest, error) {
	if s.authorizer == nil {
		return nil, fmt.Errorf("begin login: no OAuth client secrets loaded: %w", domain.ErrNotImplemented)
	}

	state, err := newState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	verifier := s.authorizer.NewVerifier()

	return &driving.LoginRequest{
		URL:          s.authorizer.AuthCodeURL(state, verifier, redirectURI),
		State:        state,
		CodeVerifier: verifier,
		RedirectURI:  redirectURI,
	}, nil
}

// CompleteLogin exchanges the code and persists the credential.
func (s *AuthService) CompleteLogin(ctx context.Context, req *driving.LoginRequest, code string) error {
	if s.authorizer == nil {
		return fmt.Errorf("complete login: no OAuth client secrets loaded: %w", domain.ErrNotImplemented)
	}
	if req == nil || code == "" {
		return fmt.Errorf("complete login: %w", domain.ErrInvalidInput)
	}

	cred, err := s.authorizer.Exchange(ctx, code, req.CodeVerifier, req.RedirectURI)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	if err := s.tokens.Save(cred); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Status reports whether a credential is stored.
func (s *AuthService) Status(_ context.Context) (*driving.AuthStatus, error) {
	status := &driving.AuthStatus{TokenPath: s.tokens.Path()}

	cred, err := s.tokens.Load()
	if errors.Is(err, domain.ErrAuthRequired) {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	status.Authenticated = cred.AccessToken != "" || cred.CanRefresh()
	status.Expiry = cred.Expiry
	status.CanRefresh = cred.CanRefresh()
	return status, nil
}

// Revoke deletes the stored credential.
func (s *AuthService) Revoke(ctx context.Context) error {
	if s.provider != nil {
		return s.provider.Revoke(ctx)
	}
	return s.tokens.Delete()
}

// newState returns 128 random bits, hex encoded, for the OAuth state parameter.
func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

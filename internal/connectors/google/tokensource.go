package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// TokenSourceAdapter adapts a driven.CredentialProvider to oauth2.TokenSource
// so Google API clients share the agent's credential handling.
type TokenSourceAdapter struct {
	provider driven.CredentialProvider
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource from a CredentialProvider.
// Use it with option.WithTokenSource when creating Google API services.
func NewTokenSource(ctx context.Context, provider driven.CredentialProvider) oauth2.TokenSource {
	return &TokenSourceAdapter{
		provider: provider,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	cred, err := t.provider.Credential(t.ctx)
	if err != nil {
		return nil, err
	}

	tokenType := cred.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    tokenType,
		Expiry:       cred.Expiry,
	}, nil
}

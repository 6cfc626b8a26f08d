package auth

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	gconn "github.com/custodia-labs/workspace-agent/internal/connectors/google"
	"github.com/custodia-labs/workspace-agent/internal/core/domain"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
)

// Ensure GoogleAuthorizer implements the interface.
var _ driven.Authorizer = (*GoogleAuthorizer)(nil)

// LoadOAuthConfig reads the client secrets JSON downloaded from Google Cloud
// and returns a config requesting the workspace scopes.
func LoadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	path, err := ExpandHome(credentialsFile)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client secrets %s: %w", path, err)
	}
	cfg, err := google.ConfigFromJSON(data, gconn.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets %s: %w", path, err)
	}
	return cfg, nil
}

// GoogleAuthorizer runs the authorization-code flow with PKCE.
type GoogleAuthorizer struct {
	config *oauth2.Config
}

// NewGoogleAuthorizer wraps an OAuth client config.
func NewGoogleAuthorizer(config *oauth2.Config) *GoogleAuthorizer {
	return &GoogleAuthorizer{config: config}
}

// AuthCodeURL returns the consent page URL. Offline access and forced
// consent make Google issue a refresh token on every login.
func (a *GoogleAuthorizer) AuthCodeURL(state, verifier, redirectURI string) string {
	return a.withRedirect(redirectURI).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(verifier),
	)
}

// NewVerifier returns a random PKCE verifier.
func (a *GoogleAuthorizer) NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// Exchange trades the code for a credential.
func (a *GoogleAuthorizer) Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (*domain.Credential, error) {
	token, err := a.withRedirect(redirectURI).Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	cred := credentialFromToken(token)
	cred.Scopes = a.config.Scopes
	return cred, nil
}

func (a *GoogleAuthorizer) withRedirect(redirectURI string) *oauth2.Config {
	cfg := *a.config
	cfg.RedirectURL = redirectURI
	return &cfg
}

func credentialFromToken(token *oauth2.Token) *domain.Credential {
	return &domain.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.Type(),
		Expiry:       token.Expiry,
	}
}

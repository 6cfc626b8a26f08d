package driven

import (
	"context"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

// CredentialProvider supplies valid OAuth credentials to capability clients.
// Implementations refresh expired tokens transparently.
type CredentialProvider interface {
	// Credential returns a valid credential, refreshing it if needed.
	Credential(ctx context.Context) (*domain.Credential, error)

	// Revoke discards the stored credential. Subsequent calls to
	// Credential fail with domain.ErrCredentialsRevoked.
	Revoke(ctx context.Context) error
}

// TokenStore persists the user's OAuth credential.
type TokenStore interface {
	// Load returns the stored credential or domain.ErrAuthRequired.
	Load() (*domain.Credential, error)

	// Save persists the credential.
	Save(cred *domain.Credential) error

	// Delete removes the stored credential. Deleting a missing credential is not an error.
	Delete() error

	// Path returns where the credential is stored.
	Path() string
}

// Authorizer runs the OAuth authorization-code exchange for the workspace scopes.
type Authorizer interface {
	// NewVerifier returns a fresh PKCE code verifier.
	NewVerifier() string

	// AuthCodeURL returns the consent URL for state and redirect, carrying the
	// S256 challenge derived from verifier.
	AuthCodeURL(state, verifier, redirectURI string) string

	// Exchange trades an authorization code for a credential.
	Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (*domain.Credential, error)
}

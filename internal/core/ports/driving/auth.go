package driving

import (
	"context"
	"time"
)

// AuthStatus describes the stored workspace credential.
type AuthStatus struct {
	// Authenticated is true when a credential is stored.
	Authenticated bool

	// Expiry is when the access token expires.
	Expiry time.Time

	// CanRefresh is true when a refresh token is stored.
	CanRefresh bool

	// TokenPath is where the credential lives.
	TokenPath string
}

// LoginRequest is an authorization in progress.
type LoginRequest struct {
	// URL is the consent page the user must visit.
	URL string

	// State protects the callback against CSRF.
	State string

	// CodeVerifier is the PKCE secret sent with the code exchange.
	CodeVerifier string

	// RedirectURI is where the consent page sends the code.
	RedirectURI string
}

// AuthService manages the workspace OAuth credential.
type AuthService interface {
	// BeginLogin prepares the consent URL for the given redirect URI.
	BeginLogin(redirectURI string) (*LoginRequest, error)

	// CompleteLogin exchanges the authorization code and stores the credential.
	CompleteLogin(ctx context.Context, req *LoginRequest, code string) error

	// Status reports the stored credential.
	Status(ctx context.Context) (*AuthStatus, error)

	// Revoke deletes the stored credential.
	Revoke(ctx context.Context) error
}

package domain

import "time"

// expiryDelta treats tokens as expired slightly early so in-flight calls
// do not race the real expiry.
const expiryDelta = 30 * time.Second

// Credential is the OAuth token used by the workspace clients.
type Credential struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires. Zero means no expiry.
	Expiry time.Time `json:"expiry,omitempty"`
	// Scopes granted by the user.
	Scopes []string `json:"scopes,omitempty"`
}

// Expired returns true if the access token has expired.
func (c *Credential) Expired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(expiryDelta).After(c.Expiry)
}

// Valid returns true if the credential carries an unexpired access token.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && !c.Expired()
}

// CanRefresh returns true if a refresh token is available.
func (c *Credential) CanRefresh() bool {
	return c != nil && c.RefreshToken != ""
}

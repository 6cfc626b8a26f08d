//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
)

type mockAuthService struct {
	beginErr    error
	completeErr error

	redirectURI string
	gotCode     string
	gotRequest  *driving.LoginRequest
}

func (m *mockAuthService) BeginLogin(redirectURI string) (*driving.LoginRequest, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	m.redirectURI = redirectURI
	return &driving.LoginRequest{
		URL:          "https://accounts.example.com/consent",
		State:        "state-xyz",
		CodeVerifier: "verifier",
		RedirectURI:  redirectURI,
	}, nil
}

func (m *mockAuthService) CompleteLogin(_ context.Context, req *driving.LoginRequest, code string) error {
	m.gotRequest = req
	m.gotCode = code
	return m.completeErr
}

func (m *mockAuthService) Status(_ context.Context) (*driving.AuthStatus, error) {
	return &driving.AuthStatus{}, nil
}

func (m *mockAuthService) Revoke(_ context.Context) error { return nil }

// redirectingBrowser simulates the user approving consent.
func redirectingBrowser(auth *mockAuthService, params url.Values) func(string) error {
	return func(_ string) error {
		resp, err := http.Get(auth.redirectURI + "?" + params.Encode())
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}

func TestLogin_Success(t *testing.T) {
	auth := &mockAuthService{}
	var out bytes.Buffer

	err := Login(context.Background(), auth, LoginOptions{
		Timeout: 2 * time.Second,
		Open:    redirectingBrowser(auth, url.Values{"code": {"the-code"}, "state": {"state-xyz"}}),
		Out:     &out,
	})

	require.NoError(t, err)
	assert.Equal(t, "the-code", auth.gotCode)
	assert.Equal(t, "verifier", auth.gotRequest.CodeVerifier)
	assert.Contains(t, auth.redirectURI, "http://localhost:")
	assert.Contains(t, out.String(), "https://accounts.example.com/consent")
	assert.Contains(t, out.String(), "Signed in")
}

func TestLogin_StateMismatch(t *testing.T) {
	auth := &mockAuthService{}

	err := Login(context.Background(), auth, LoginOptions{
		Timeout: 2 * time.Second,
		Open:    redirectingBrowser(auth, url.Values{"code": {"the-code"}, "state": {"forged"}}),
	})

	assert.ErrorIs(t, err, ErrStateMismatch)
	assert.Empty(t, auth.gotCode)
}

func TestLogin_BeginFails(t *testing.T) {
	auth := &mockAuthService{beginErr: errors.New("no client secrets")}

	err := Login(context.Background(), auth, LoginOptions{Open: func(string) error { return nil }})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no client secrets")
}

func TestLogin_CompleteFails(t *testing.T) {
	auth := &mockAuthService{completeErr: errors.New("exchange failed")}

	err := Login(context.Background(), auth, LoginOptions{
		Timeout: 2 * time.Second,
		Open:    redirectingBrowser(auth, url.Values{"code": {"c"}, "state": {"state-xyz"}}),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange failed")
}

func TestLogin_Timeout(t *testing.T) {
	auth := &mockAuthService{}

	err := Login(context.Background(), auth, LoginOptions{
		Timeout: 50 * time.Millisecond,
		Open:    func(string) error { return errors.New("no browser") },
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

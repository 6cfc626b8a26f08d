package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

type stubCredentials struct {
	cred *domain.Credential
	err  error
}

func (s *stubCredentials) Credential(context.Context) (*domain.Credential, error) {
	return s.cred, s.err
}

func (s *stubCredentials) Revoke(context.Context) error {
	return nil
}

func TestTokenSource(t *testing.T) {
	t.Run("converts the credential", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		ts := NewTokenSource(context.Background(), &stubCredentials{
			cred: &domain.Credential{AccessToken: "abc", RefreshToken: "r", Expiry: expiry},
		})

		tok, err := ts.Token()

		require.NoError(t, err)
		assert.Equal(t, "abc", tok.AccessToken)
		assert.Equal(t, "Bearer", tok.TokenType)
		assert.Equal(t, expiry, tok.Expiry)
	})

	t.Run("propagates provider errors", func(t *testing.T) {
		ts := NewTokenSource(context.Background(), &stubCredentials{err: domain.ErrCredentialsRevoked})

		_, err := ts.Token()

		assert.ErrorIs(t, err, domain.ErrCredentialsRevoked)
	})
}

func TestGetUserInfo(t *testing.T) {
	t.Run("decodes the profile", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"email":"me@example.com","verified_email":true,"name":"Me"}`))
		}))
		defer srv.Close()

		info, err := getUserInfo(context.Background(), srv.Client(), srv.URL, "tok")

		require.NoError(t, err)
		assert.Equal(t, "me@example.com", info.Email)
		assert.True(t, info.VerifiedEmail)
	})

	t.Run("non 200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := getUserInfo(context.Background(), srv.Client(), srv.URL, "tok")

		assert.ErrorContains(t, err, "401")
	})
}

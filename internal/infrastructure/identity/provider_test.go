package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagalog-rizz-api/internal/config"
)

type fakeIdP struct {
	server   *httptest.Server
	verifier string
	code     string
	userinfo any
	status   int
}

func newFakeIdP(t *testing.T) *fakeIdP {
	t.Helper()
	idp := &fakeIdP{status: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		idp.code = r.PostForm.Get("code")
		idp.verifier = r.PostForm.Get("code_verifier")
		if idp.code != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(idp.status)
		_ = json.NewEncoder(w).Encode(idp.userinfo)
	})
	idp.server = httptest.NewServer(mux)
	t.Cleanup(idp.server.Close)
	return idp
}

func (f *fakeIdP) provider() *Provider {
	return NewProvider(&config.IdentityConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		AuthURL:      f.server.URL + "/authorize",
		TokenURL:     f.server.URL + "/token",
		UserInfoURL:  f.server.URL + "/userinfo",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scopes:       []string{"openid", "email"},
	})
}

func TestProvider_AuthCodeURL(t *testing.T) {
	idp := newFakeIdP(t)
	p := idp.provider()

	raw := p.AuthCodeURL("state-1", NewVerifier())
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "/authorize", u.Path)
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.Equal(t, "openid email", q.Get("scope"))
}

func TestProvider_Exchange(t *testing.T) {
	idp := newFakeIdP(t)
	idp.userinfo = map[string]any{"sub": "user-42", "email": "juan@example.com"}
	p := idp.provider()

	verifier := NewVerifier()
	user, err := p.Exchange(context.Background(), "good-code", verifier)
	require.NoError(t, err)
	assert.Equal(t, "user-42", user.ID)
	assert.Equal(t, "juan@example.com", user.Email)
	assert.Equal(t, verifier, idp.verifier)
}

func TestProvider_ExchangePrefersIDAndAcceptsNumbers(t *testing.T) {
	idp := newFakeIdP(t)
	idp.userinfo = map[string]any{"id": 12345, "sub": "ignored"}

	user, err := idp.provider().Exchange(context.Background(), "good-code", NewVerifier())
	require.NoError(t, err)
	assert.Equal(t, "12345", user.ID)
	assert.Empty(t, user.Email)
}

func TestProvider_ExchangeFailures(t *testing.T) {
	t.Run("bad code", func(t *testing.T) {
		idp := newFakeIdP(t)
		_, err := idp.provider().Exchange(context.Background(), "bad-code", NewVerifier())
		assert.Error(t, err)
	})

	t.Run("userinfo error status", func(t *testing.T) {
		idp := newFakeIdP(t)
		idp.status = http.StatusInternalServerError
		idp.userinfo = map[string]any{}
		_, err := idp.provider().Exchange(context.Background(), "good-code", NewVerifier())
		assert.ErrorContains(t, err, "status 500")
	})

	t.Run("missing user id", func(t *testing.T) {
		idp := newFakeIdP(t)
		idp.userinfo = map[string]any{"email": "x@example.com"}
		_, err := idp.provider().Exchange(context.Background(), "good-code", NewVerifier())
		assert.ErrorContains(t, err, "no user id")
	})

	t.Run("not configured", func(t *testing.T) {
		p := NewProvider(&config.IdentityConfig{})
		assert.False(t, p.Configured())
		_, err := p.Exchange(context.Background(), "code", "v")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/interfaces/http/dto"
)

type fakeIdentity struct {
	configured  bool
	user        *entity.User
	err         error
	gotCode     string
	gotVerifier string
}

func (f *fakeIdentity) Configured() bool { return f.configured }

func (f *fakeIdentity) AuthCodeURL(state, verifier string) string {
	q := url.Values{}
	q.Set("state", state)
	q.Set("verifier", verifier)
	return "https://idp.test/authorize?" + q.Encode()
}

func (f *fakeIdentity) Exchange(_ context.Context, code, verifier string) (*entity.User, error) {
	f.gotCode = code
	f.gotVerifier = verifier
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	return &u, nil
}

type fakeUserRepo struct {
	upserted []*entity.User
	err      error
}

func (r *fakeUserRepo) Upsert(_ context.Context, u *entity.User) error {
	r.upserted = append(r.upserted, u)
	return r.err
}

func (r *fakeUserRepo) GetByID(context.Context, string) (*entity.User, error) { return nil, nil }

func newAuthHandler(idp *fakeIdentity, users *fakeUserRepo) *AuthHandler {
	h := NewAuthHandler(AuthConfig{CookieName: testCookie, SessionTTL: time.Hour}, idp, newTestJWT(), users)
	h.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	return h
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	h := newAuthHandler(&fakeIdentity{configured: true}, &fakeUserRepo{})
	e := newTestEngine(newTestJWT())
	e.GET("/auth/login", h.Login)

	rec := doRequest(e, http.MethodGet, "/auth/login", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "idp.test", loc.Host)

	cookies := rec.Result().Cookies()
	state := findCookie(cookies, stateCookie)
	verifier := findCookie(cookies, verifierCookie)
	require.NotNil(t, state)
	require.NotNil(t, verifier)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, state.Value, loc.Query().Get("state"))
	assert.Equal(t, verifier.Value, loc.Query().Get("verifier"))
}

func TestAuthHandler_LoginNotConfigured(t *testing.T) {
	h := newAuthHandler(&fakeIdentity{}, &fakeUserRepo{})
	e := newTestEngine(newTestJWT())
	e.GET("/auth/login", h.Login)

	rec := doRequest(e, http.MethodGet, "/auth/login", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login?error=")
}

func TestAuthHandler_CallbackErrors(t *testing.T) {
	withState := []*http.Cookie{
		{Name: stateCookie, Value: "s1"},
		{Name: verifierCookie, Value: "v1"},
	}

	cases := []struct {
		name    string
		target  string
		cookies []*http.Cookie
		idpErr  error
		want    string
	}{
		{"missing code", "/auth/callback?state=s1", withState, nil, "No authentication code provided"},
		{"state mismatch", "/auth/callback?code=c&state=other", withState, nil, "Invalid authentication state"},
		{"missing state cookie", "/auth/callback?code=c&state=s1", nil, nil, "Invalid authentication state"},
		{"exchange failure", "/auth/callback?code=c&state=s1", withState, errors.New("invalid_grant"), "Authentication failed: invalid_grant"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &fakeUserRepo{}
			h := newAuthHandler(&fakeIdentity{configured: true, err: tc.idpErr}, users)
			e := newTestEngine(newTestJWT())
			e.GET("/auth/callback", h.Callback)

			rec := doRequest(e, http.MethodGet, tc.target, nil, tc.cookies...)
			require.Equal(t, http.StatusFound, rec.Code)

			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, tc.want, loc.Query().Get("error"))
			assert.Nil(t, findCookie(rec.Result().Cookies(), testCookie))
			assert.Empty(t, users.upserted)
		})
	}
}

func TestAuthHandler_CallbackSuccess(t *testing.T) {
	idp := &fakeIdentity{configured: true, user: &entity.User{ID: "user-42", Email: "maria@example.com"}}
	users := &fakeUserRepo{}
	h := newAuthHandler(idp, users)
	jwt := newTestJWT()
	e := newTestEngine(jwt)
	e.GET("/auth/callback", h.Callback)

	rec := doRequest(e, http.MethodGet, "/auth/callback?code=good&state=s1", nil,
		&http.Cookie{Name: stateCookie, Value: "s1"},
		&http.Cookie{Name: verifierCookie, Value: "v1"},
	)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "good", idp.gotCode)
	assert.Equal(t, "v1", idp.gotVerifier)

	require.Len(t, users.upserted, 1)
	require.NotNil(t, users.upserted[0].LastLoginAt)

	session := findCookie(rec.Result().Cookies(), testCookie)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	claims, err := jwt.ParseSessionToken(session.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "maria@example.com", claims.Email)

	// 临时 Cookie 被清除
	state := findCookie(rec.Result().Cookies(), stateCookie)
	require.NotNil(t, state)
	assert.Less(t, state.MaxAge, 0)
}

func TestAuthHandler_CallbackUpsertFailureStillSignsIn(t *testing.T) {
	idp := &fakeIdentity{configured: true, user: &entity.User{ID: "user-42"}}
	h := newAuthHandler(idp, &fakeUserRepo{err: errors.New("db down")})
	e := newTestEngine(newTestJWT())
	e.GET("/auth/callback", h.Callback)

	rec := doRequest(e, http.MethodGet, "/auth/callback?code=good&state=s1", nil,
		&http.Cookie{Name: stateCookie, Value: "s1"},
	)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.NotNil(t, findCookie(rec.Result().Cookies(), testCookie))
}

func TestAuthHandler_SessionAndLogout(t *testing.T) {
	jwt := newTestJWT()
	h := newAuthHandler(&fakeIdentity{configured: true}, &fakeUserRepo{})
	e := newTestEngine(jwt)
	e.GET("/api/auth/session", h.Session)
	e.POST("/auth/logout", h.Logout)

	rec := doRequest(e, http.MethodGet, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/api/auth/session", nil, &http.Cookie{Name: testCookie, Value: "garbage"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":null}`, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/api/auth/session", nil, sessionCookie(t, jwt, "user-1", "juan@example.com"))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.SessionResponse](t, rec)
	require.NotNil(t, resp.User)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, "juan@example.com", resp.User.Email)

	rec = doRequest(e, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	cleared := findCookie(rec.Result().Cookies(), testCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

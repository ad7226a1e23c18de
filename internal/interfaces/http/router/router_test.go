package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tagalog-rizz-api/internal/application/pickup"
	"tagalog-rizz-api/internal/config"
	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/interfaces/http/handler"
	"tagalog-rizz-api/pkg/utils"
)

type stubPickup struct{}

func (stubPickup) Generate(context.Context, pickup.GenerationRequest, string) (*pickup.Result, error) {
	return &pickup.Result{Items: pickup.Fallback(1), Note: pickup.FallbackNote}, nil
}

func (stubPickup) Chat(context.Context, string, string) (*pickup.ChatResult, error) {
	return &pickup.ChatResult{Text: "Kape ka ba?"}, nil
}

type stubFavorites struct{}

func (stubFavorites) List(context.Context, string) ([]*entity.Favorite, error) { return nil, nil }
func (stubFavorites) Create(context.Context, string, string, string) (*entity.Favorite, error) {
	return &entity.Favorite{}, nil
}
func (stubFavorites) Delete(context.Context, string, string) error { return nil }

type stubIdentity struct{}

func (stubIdentity) Configured() bool                  { return false }
func (stubIdentity) AuthCodeURL(string, string) string { return "" }
func (stubIdentity) Exchange(context.Context, string, string) (*entity.User, error) {
	return nil, nil
}

type stubUsers struct{}

func (stubUsers) Upsert(context.Context, *entity.User) error            { return nil }
func (stubUsers) GetByID(context.Context, string) (*entity.User, error) { return nil, nil }

type denyAll struct{}

func (denyAll) Allow(context.Context, string, int, time.Duration) (bool, error) { return false, nil }

func newTestRouter(limited bool) *Router {
	cfg := &config.Config{}
	cfg.App.Name = "tagalog-rizz-api"
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, Limit: 1, Window: time.Minute}

	jwt := utils.NewJWTManager("secret", "tagalog-rizz-api")
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(nil, nil),
		Pickup:   handler.NewPickupHandler(stubPickup{}),
		Favorite: handler.NewFavoriteHandler(stubFavorites{}),
		Auth:     handler.NewAuthHandler(handler.AuthConfig{}, stubIdentity{}, jwt, stubUsers{}),
	}
	if limited {
		return New(cfg, handlers, jwt, denyAll{})
	}
	return New(cfg, handlers, jwt, nil)
}

func TestRouter_Routes(t *testing.T) {
	e := newTestRouter(false).Engine()

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/api/generate", http.StatusOK},
		{http.MethodGet, "/api/auth/session", http.StatusOK},
		{http.MethodGet, "/api/favorites", http.StatusUnauthorized},
		{http.MethodPost, "/api/favorites", http.StatusUnauthorized},
		{http.MethodDelete, "/api/favorites", http.StatusUnauthorized},
		{http.MethodGet, "/auth/login", http.StatusFound},
		{http.MethodPost, "/auth/logout", http.StatusOK},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_RateLimitedGeneration(t *testing.T) {
	e := newTestRouter(true).Engine()

	for _, path := range []string{"/api/generate", "/api/chat"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code, path)
	}

	// 会话查询不受限流影响
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

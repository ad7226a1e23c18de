package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagalog-rizz-api/internal/application/pickup"
	"tagalog-rizz-api/internal/domain/entity"
	"tagalog-rizz-api/internal/interfaces/http/dto"
	apperrors "tagalog-rizz-api/pkg/errors"
)

type fakePickupService struct {
	gotReq    pickup.GenerationRequest
	gotTopic  string
	gotUserID string
	result    *pickup.Result
	chat      *pickup.ChatResult
	err       error
}

func (f *fakePickupService) Generate(_ context.Context, req pickup.GenerationRequest, userID string) (*pickup.Result, error) {
	f.gotReq = req
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &pickup.Result{
		Items:   []pickup.Item{{Text: "Kape ka ba?", Translation: "Are you coffee?"}},
		Outcome: entity.GenerationOutcomeLive,
	}, nil
}

func (f *fakePickupService) Chat(_ context.Context, topic, userID string) (*pickup.ChatResult, error) {
	f.gotTopic = topic
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	if f.chat != nil {
		return f.chat, nil
	}
	return &pickup.ChatResult{Text: "Ulan ka ba? Kasi ikaw ang hinihintay ko.", Outcome: entity.GenerationOutcomeLive}, nil
}

func newPickupHandler(svc *fakePickupService) (*PickupHandler, *fakePickupService) {
	return NewPickupHandler(svc), svc
}

func TestPickupHandler_GenerateDefaults(t *testing.T) {
	jwt := newTestJWT()
	h, svc := newPickupHandler(&fakePickupService{})
	e := newTestEngine(jwt)
	e.POST("/api/generate", h.Generate)

	rec := doRequest(e, http.MethodPost, "/api/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, svc.gotReq.Count())
	assert.True(t, svc.gotReq.IncludeTranslations())
	assert.Equal(t, pickup.DefaultScenario, svc.gotReq.Scenario())
	assert.Equal(t, pickup.CategoryNone, svc.gotReq.Category())
	assert.Empty(t, svc.gotUserID)

	resp := decode[dto.GenerateResponse](t, rec)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Kape ka ba?", resp.Lines[0].Tagalog)
	assert.Equal(t, "Are you coffee?", resp.Lines[0].Translation)
	assert.Empty(t, resp.Note)
	assert.NotContains(t, rec.Body.String(), "note")
}

func TestPickupHandler_GenerateEmptyBodyWithoutLength(t *testing.T) {
	h, svc := newPickupHandler(&fakePickupService{})
	e := newTestEngine(newTestJWT())
	e.POST("/api/generate", h.Generate)

	for _, body := range []string{"", "  \n"} {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		req.TransferEncoding = []string{"chunked"}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "body %q", body)
		assert.Equal(t, 1, svc.gotReq.Count())
		assert.True(t, svc.gotReq.IncludeTranslations())
	}
}

func TestPickupHandler_GenerateParams(t *testing.T) {
	jwt := newTestJWT()
	h, svc := newPickupHandler(&fakePickupService{})
	e := newTestEngine(jwt)
	e.POST("/api/generate", h.Generate)

	body := map[string]any{
		"scenario":            "sa jeep",
		"count":               50,
		"category":            "Funny",
		"includeTranslations": false,
	}
	rec := doRequest(e, http.MethodPost, "/api/generate", body, sessionCookie(t, jwt, "user-1", "a@b.c"))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "sa jeep", svc.gotReq.Scenario())
	assert.Equal(t, pickup.MaxCount, svc.gotReq.Count())
	assert.Equal(t, pickup.CategoryFunny, svc.gotReq.Category())
	assert.False(t, svc.gotReq.IncludeTranslations())
	assert.Equal(t, "user-1", svc.gotUserID)
}

func TestPickupHandler_GenerateNullCategory(t *testing.T) {
	h, svc := newPickupHandler(&fakePickupService{})
	e := newTestEngine(newTestJWT())
	e.POST("/api/generate", h.Generate)

	rec := doRequest(e, http.MethodPost, "/api/generate", `{"category":null,"count":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pickup.CategoryNone, svc.gotReq.Category())
	assert.Equal(t, 3, svc.gotReq.Count())
}

func TestPickupHandler_GenerateBadRequests(t *testing.T) {
	h, _ := newPickupHandler(&fakePickupService{})
	e := newTestEngine(newTestJWT())
	e.POST("/api/generate", h.Generate)

	cases := map[string]string{
		"malformed json":   `{"count":`,
		"invalid category": `{"category":"spicy"}`,
		"wrong type":       `{"count":"five"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/api/generate", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[dto.ErrorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestPickupHandler_GenerateFallbackNote(t *testing.T) {
	svc := &fakePickupService{result: &pickup.Result{
		Items:   pickup.Fallback(2),
		Note:    pickup.FallbackNote,
		Outcome: entity.GenerationOutcomeFallback,
	}}
	h, _ := newPickupHandler(svc)
	e := newTestEngine(newTestJWT())
	e.POST("/api/generate", h.Generate)

	rec := doRequest(e, http.MethodPost, "/api/generate", `{"count":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[dto.GenerateResponse](t, rec)
	assert.Len(t, resp.Lines, 2)
	assert.Equal(t, pickup.FallbackNote, resp.Note)
}

func TestPickupHandler_GenerateConfigurationError(t *testing.T) {
	svc := &fakePickupService{err: apperrors.ErrLLMConfig.WithError(errors.New("missing key"))}
	h, _ := newPickupHandler(svc)
	e := newTestEngine(newTestJWT())
	e.POST("/api/generate", h.Generate)

	rec := doRequest(e, http.MethodPost, "/api/generate", `{}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[dto.ErrorResponse](t, rec)
	assert.Equal(t, apperrors.ErrLLMConfig.Message, resp.Error)
	assert.NotContains(t, rec.Body.String(), "missing key")
}

func TestPickupHandler_Chat(t *testing.T) {
	jwt := newTestJWT()
	h, svc := newPickupHandler(&fakePickupService{})
	e := newTestEngine(jwt)
	e.POST("/api/chat", h.Chat)

	rec := doRequest(e, http.MethodPost, "/api/chat", map[string]string{"prompt": "  ulan  "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ulan", svc.gotTopic)

	resp := decode[dto.ChatResponse](t, rec)
	assert.Contains(t, resp.Text, "Ulan ka ba")

	rec = doRequest(e, http.MethodPost, "/api/chat", map[string]string{"prompt": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/chat", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPickupHandler_ChatFallback(t *testing.T) {
	svc := &fakePickupService{chat: &pickup.ChatResult{
		Text:    pickup.Fallback(1)[0].Text,
		Note:    pickup.FallbackNote,
		Outcome: entity.GenerationOutcomeFallback,
	}}
	h, _ := newPickupHandler(svc)
	e := newTestEngine(newTestJWT())
	e.POST("/api/chat", h.Chat)

	rec := doRequest(e, http.MethodPost, "/api/chat", map[string]string{"prompt": "kape"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.ChatResponse](t, rec)
	assert.Equal(t, pickup.Fallback(1)[0].Text, resp.Text)
	assert.Equal(t, pickup.FallbackNote, resp.Note)
}

package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tagalog-rizz-api/internal/interfaces/http/middleware"
	"tagalog-rizz-api/pkg/utils"
)

const testCookie = "rizz_session"

func newTestJWT() *utils.JWTManager {
	return utils.NewJWTManager("test-secret", "tagalog-rizz-api")
}

// newTestEngine 只挂载 Session 中间件，路由由各测试注册
func newTestEngine(jwt *utils.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(middleware.Session(jwt, testCookie))
	return e
}

func sessionCookie(t *testing.T, jwt *utils.JWTManager, userID, email string) *http.Cookie {
	t.Helper()
	token, err := jwt.GenerateSessionToken(userID, email, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: testCookie, Value: token}
}

func doRequest(e *gin.Engine, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

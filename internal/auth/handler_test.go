package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/cvbuilder/internal/httputil"
)

type countingLimiter struct {
	max   int
	calls map[string]int
}

func (l *countingLimiter) CheckIPRateLimitWithPurpose(_ context.Context, ip, purpose string) (bool, error) {
	return l.calls[ip+":"+purpose] >= l.max, nil
}

func (l *countingLimiter) RecordIPRequestWithPurpose(_ context.Context, ip, purpose string) error {
	l.calls[ip+":"+purpose]++
	return nil
}

func newTestRouter(env *testEnv, limiter RateLimiter) http.Handler {
	h := NewHandler(env.service, limiter)
	mw := NewMiddleware(env.service)

	r := chi.NewRouter()
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/api/auth/me", h.Me)
		r.Post("/api/auth/logout", h.Logout)
		r.Delete("/api/auth/me", h.DeleteMe)
	})
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandlerRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(env, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", `{"name":"Jane","email":"jane@example.com","password":"pw123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "jane@example.com", registered.User["email"])
	assert.NotContains(t, rec.Body.String(), "argon2id")

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", `{"email":"jane@example.com","password":"pw123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login AuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Jane"`)
}

func TestHandlerRegisterErrors(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(env, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", `{`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidRequestBody, decodeError(t, rec).Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@example.com","password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodePasswordTooShort, decodeError(t, rec).Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@@example","password":"pw123"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidEmailFormat, decodeError(t, rec).Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", `{"name":"`+strings.Repeat("n", 101)+`","email":"a@example.com","password":"pw123"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeNameTooLong, decodeError(t, rec).Code)

	body := `{"name":"A","email":"a@example.com","password":"pw123"}`
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/auth/register", body, "").Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeEmailAlreadyExists, decodeError(t, rec).Code)
}

func TestHandlerLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(env, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", `{"email":"nobody@example.com","password":"pw123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	errBody := decodeError(t, rec)
	assert.Equal(t, "invalid email or password", errBody.Message)
	assert.Equal(t, httputil.CodeInvalidCredentials, errBody.Code)
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(env, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeMissingAuth, decodeError(t, rec).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeInvalidAuthHeader, decodeError(t, rec).Code)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeInvalidToken, decodeError(t, rec).Code)
}

func TestHandlerLogout(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(env, nil)

	result, err := env.service.Register(context.Background(), "A", "a@example.com", "pw123")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "", result.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", "", result.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, httputil.CodeTokenRevoked, decodeError(t, rec).Code)
}

func TestHandlerDeleteMe(t *testing.T) {
	env := newTestEnv(t)
	router := newTestRouter(env, nil)

	result, err := env.service.Register(context.Background(), "A", "a@example.com", "pw123")
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/auth/me", "", result.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.cleaner.owners, 1)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"pw123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerRateLimit(t *testing.T) {
	env := newTestEnv(t)
	limiter := &countingLimiter{max: 2, calls: map[string]int{}}
	router := newTestRouter(env, limiter)

	body := `{"email":"nobody@example.com","password":"pw123"}`
	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, httputil.CodeTooManyRequests, decodeError(t, rec).Code)

	// register is counted separately
	rec = doJSON(t, router, http.MethodPost, "/api/auth/register", `{"name":"A","email":"a@example.com","password":"pw123"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Real-IP", " 10.0.0.2 ")
	assert.Equal(t, "10.0.0.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	assert.Equal(t, "10.0.0.3", getClientIP(req))
}

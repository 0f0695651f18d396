package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/cvbuilder/internal/auth"
	"github.com/redmonkez12/cvbuilder/internal/config"
	"github.com/redmonkez12/cvbuilder/internal/logging"
	"github.com/redmonkez12/cvbuilder/internal/render"
	"github.com/redmonkez12/cvbuilder/internal/resume"
	"github.com/redmonkez12/cvbuilder/internal/user"
)

type testApp struct {
	router  http.Handler
	resumes *resume.MemoryRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := logging.NewLoggerWithWriter(io.Discard, false)
	cfg := &config.Config{Server: config.ServerConfig{Env: "prod"}}

	renderer, err := render.New()
	require.NoError(t, err)

	tokens, err := auth.NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	resumeRepo := resume.NewMemoryRepository()
	resumeService := resume.NewService(resumeRepo, renderer, logger)
	authService := auth.NewService(user.NewMemoryRepository(), tokens, nil, resumeService, logger, time.Hour)

	router := NewRouter(
		cfg,
		auth.NewHandler(authService, nil),
		auth.NewMiddleware(authService),
		resume.NewHandler(resumeService, 1<<20),
		logger,
	)
	return &testApp{router: router, resumes: resumeRepo}
}

func (a *testApp) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is running!", decode[HealthResponse](t, rec).Message)
	assert.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/nope", "", "").Code)
}

func TestResumeRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/resume"},
		{http.MethodPost, "/api/resume"},
		{http.MethodGet, "/api/resume/abc"},
		{http.MethodPut, "/api/resume/abc"},
		{http.MethodDelete, "/api/resume/abc"},
		{http.MethodGet, "/api/resume/abc/preview"},
		{http.MethodGet, "/api/auth/me"},
	} {
		rec := app.do(t, tc.method, tc.path, "{}", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestFullFlow(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	rec := app.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Ada Lovelace","email":"Ada@Example.com","password":"engine"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[auth.AuthResult](t, rec)
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, "ada@example.com", reg.User.Email)

	rec = app.do(t, http.MethodPost, "/api/resume",
		`{"title":"Engineer","template":"classic","personalInfo":{"fullName":"Ada Lovelace"},"skills":[{"name":"Analysis","level":"expert"}]}`,
		reg.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[resume.MutationResponse](t, rec)
	id := created.Resume.ID.String()

	rec = app.do(t, http.MethodGet, "/api/resume", "", reg.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]resume.Resume](t, rec), 1)

	rec = app.do(t, http.MethodGet, "/api/resume/"+id+"/preview?template=minimal", "", reg.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "style-src 'unsafe-inline'")
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Body.String(), "resume-minimal")
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")

	// a second account cannot see the first one's resume
	rec = app.do(t, http.MethodPost, "/api/auth/register",
		`{"name":"Grace","email":"grace@example.com","password":"cobol"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	grace := decode[auth.AuthResult](t, rec)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/resume/"+id, "", grace.Token).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodDelete, "/api/resume/"+id, "", grace.Token).Code)

	// deleting the account takes its resumes with it
	rec = app.do(t, http.MethodDelete, "/api/auth/me", "", reg.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	left, err := app.resumes.List(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/auth/me", "", reg.Token).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodGet, "/api/health", "", "")

	rec := app.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestSecurityHeadersSwagger(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'self' 'unsafe-inline'")
}

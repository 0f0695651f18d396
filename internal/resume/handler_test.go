package resume

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/cvbuilder/internal/auth"
	"github.com/redmonkez12/cvbuilder/internal/httputil"
	"github.com/redmonkez12/cvbuilder/internal/user"
)

// asUser stands in for auth.Middleware.RequireAuth
func asUser(u *user.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), u)))
		})
	}
}

func newTestHandlerRouter(svc *Service, u *user.User) http.Handler {
	h := NewHandler(svc, 1<<10)

	r := chi.NewRouter()
	r.Route("/api/resume", func(r chi.Router) {
		if u != nil {
			r.Use(asUser(u))
		}
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/preview", h.Preview)
	})
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerEndToEnd(t *testing.T) {
	svc, _ := newTestService()
	ada := &user.User{ID: uuid.New(), Name: "Ada", Email: "ada@x.com"}
	router := newTestHandlerRouter(svc, ada)

	rec := serve(t, router, http.MethodPost, "/api/resume", `{"title":"Ada CV","personalInfo":{"fullName":"Ada Lovelace"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Resume created successfully", created.Message)
	assert.Equal(t, ada.ID, created.Resume.UserID)
	id := created.Resume.ID.String()

	// same data plus one skill
	rec = serve(t, router, http.MethodPut, "/api/resume/"+id,
		`{"title":"Ada CV","personalInfo":{"fullName":"Ada Lovelace"},"skills":[{"name":"Mathematics","level":"expert"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Resume updated successfully")

	rec = serve(t, router, http.MethodGet, "/api/resume/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []Skill{{Name: "Mathematics", Level: SkillExpert}}, got.Skills)

	rec = serve(t, router, http.MethodGet, "/api/resume", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Resume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = serve(t, router, http.MethodDelete, "/api/resume/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Resume deleted successfully"}`, rec.Body.String())

	rec = serve(t, router, http.MethodGet, "/api/resume/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errBody httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "Resume not found", errBody.Message)
}

func TestHandlerEmptyListIsArray(t *testing.T) {
	svc, _ := newTestService()
	router := newTestHandlerRouter(svc, &user.User{ID: uuid.New()})

	rec := serve(t, router, http.MethodGet, "/api/resume", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandlerCreateReturnsEmptyArrays(t *testing.T) {
	svc, _ := newTestService()
	router := newTestHandlerRouter(svc, &user.User{ID: uuid.New()})

	rec := serve(t, router, http.MethodPost, "/api/resume", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"experience":[]`)
	assert.Contains(t, body, `"title":"My Resume"`)
	assert.Contains(t, body, `"template":"modern"`)
	assert.NotContains(t, body, "null")
}

func TestHandlerValidationErrors(t *testing.T) {
	svc, _ := newTestService()
	router := newTestHandlerRouter(svc, &user.User{ID: uuid.New()})

	rec := serve(t, router, http.MethodPost, "/api/resume", `{"template":"fancy"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, httputil.CodeValidationFailed, errBody.Code)
	assert.NotNil(t, errBody.Details)

	rec = serve(t, router, http.MethodPost, "/api/resume", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, httputil.CodeInvalidRequestBody, errBody.Code)

	rec = serve(t, router, http.MethodPost, "/api/resume", `{"title":"`+strings.Repeat("x", 2048)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandlerOwnershipIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	a := &user.User{ID: uuid.New()}
	b := &user.User{ID: uuid.New()}

	rec := serve(t, newTestHandlerRouter(svc, a), http.MethodPost, "/api/resume", `{"title":"A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := "/api/resume/" + created.Resume.ID.String()

	routerB := newTestHandlerRouter(svc, b)
	assert.Equal(t, http.StatusNotFound, serve(t, routerB, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, routerB, http.MethodPut, path, `{"title":"B"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(t, routerB, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, routerB, http.MethodGet, path+"/preview", "").Code)
}

func TestHandlerPreview(t *testing.T) {
	svc, _ := newTestService()
	router := newTestHandlerRouter(svc, &user.User{ID: uuid.New()})

	rec := serve(t, router, http.MethodPost, "/api/resume", `{"title":"Ada CV"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(t, router, http.MethodGet, "/api/resume/"+created.Resume.ID.String()+"/preview?template=classic", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `id="resume-preview"`)
}

func TestHandlerRequiresUser(t *testing.T) {
	svc, _ := newTestService()
	router := newTestHandlerRouter(svc, nil)

	rec := serve(t, router, http.MethodGet, "/api/resume", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package resume

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/cvbuilder/internal/auth"
	"github.com/redmonkez12/cvbuilder/internal/httputil"
	"github.com/redmonkez12/cvbuilder/internal/logging"
	"github.com/redmonkez12/cvbuilder/internal/metrics"
)

// Handler contains HTTP handlers for resume endpoints
type Handler struct {
	service      *Service
	maxBodyBytes int64
}

func NewHandler(service *Service, maxBodyBytes int64) *Handler {
	return &Handler{service: service, maxBodyBytes: maxBodyBytes}
}

// MutationResponse is returned by create and update
type MutationResponse struct {
	Message string  `json:"message"`
	Resume  *Resume `json:"resume"`
}

// List returns the caller's resumes
// @Summary      List resumes
// @Description  All resumes owned by the caller, most recently updated first
// @Tags         resume
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Resume
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /resume [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	resumes, err := h.service.List(r.Context(), owner)
	metrics.ObserveResumeOperation("list", err)
	if err != nil {
		logger.Error("failed to list resumes", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error getting resumes", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, resumes, http.StatusOK)
}

// Get returns one resume
// @Summary      Get resume
// @Tags         resume
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Resume ID"
// @Success      200 {object} Resume
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /resume/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	res, err := h.service.Get(r.Context(), owner, chi.URLParam(r, "id"))
	metrics.ObserveResumeOperation("get", err)
	if err != nil {
		h.respondServiceError(w, r, err, "Server error getting resume")
		return
	}

	httputil.RespondJSON(w, res, http.StatusOK)
}

// Create stores a new resume
// @Summary      Create resume
// @Description  Missing fields get defaults: title "My Resume", template "modern", empty sections
// @Tags         resume
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body Content true "Resume content"
// @Success      201 {object} MutationResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid body or validation error"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /resume [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	content, ok := h.decode(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), owner, content)
	metrics.ObserveResumeOperation("create", err)
	if err != nil {
		h.respondServiceError(w, r, err, "Server error creating resume")
		return
	}

	logger.Info("resume created", "resume_id", created.ID)
	httputil.RespondJSON(w, MutationResponse{Message: "Resume created successfully", Resume: created}, http.StatusCreated)
}

// Update replaces a resume's content
// @Summary      Update resume
// @Description  Full replace of every editable field; owner, id and createdAt are kept
// @Tags         resume
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Resume ID"
// @Param        request body Content true "Resume content"
// @Success      200 {object} MutationResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid body or validation error"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /resume/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	content, ok := h.decode(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), owner, chi.URLParam(r, "id"), content)
	metrics.ObserveResumeOperation("update", err)
	if err != nil {
		h.respondServiceError(w, r, err, "Server error updating resume")
		return
	}

	logger.Info("resume updated", "resume_id", updated.ID)
	httputil.RespondJSON(w, MutationResponse{Message: "Resume updated successfully", Resume: updated}, http.StatusOK)
}

// Delete removes a resume
// @Summary      Delete resume
// @Tags         resume
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Resume ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /resume/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	err := h.service.Delete(r.Context(), owner, id)
	metrics.ObserveResumeOperation("delete", err)
	if err != nil {
		h.respondServiceError(w, r, err, "Server error deleting resume")
		return
	}

	logger.Info("resume deleted", "resume_id", id)
	httputil.RespondMessage(w, "Resume deleted successfully", http.StatusOK)
}

// Preview renders a resume as HTML
// @Summary      Preview resume
// @Description  Render the stored resume with its own template or the one named in the query
// @Tags         resume
// @Produce      html
// @Security     BearerAuth
// @Param        id path string true "Resume ID"
// @Param        template query string false "modern, classic or minimal"
// @Success      200 {string} string "HTML document"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /resume/{id}/preview [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	page, err := h.service.Preview(r.Context(), owner, chi.URLParam(r, "id"), r.URL.Query().Get("template"))
	metrics.ObserveResumeOperation("preview", err)
	if err != nil {
		h.respondServiceError(w, r, err, "Server error rendering resume")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	owner, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return owner, true
}

// decode reads at most maxBodyBytes and runs the schema check
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Content, bool) {
	logger := logging.GetLoggerFromContext(r.Context())

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondErrorWithCode(w, "request body too large", httputil.CodeInvalidRequestBody, http.StatusRequestEntityTooLarge)
			return Content{}, false
		}
		logger.Warn("failed to read resume body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return Content{}, false
	}

	content, err := DecodeContent(raw)
	if err != nil {
		h.respondServiceError(w, r, err, "invalid request body")
		return Content{}, false
	}
	return content, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, serverMessage string) {
	logger := logging.GetLoggerFromContext(r.Context())

	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "Resume not found", httputil.CodeNotFound, http.StatusNotFound)
	case errors.As(err, &verr):
		logger.Warn("resume validation failed", "error", verr.Error())
		httputil.RespondErrorWithDetails(w, "validation failed", httputil.CodeValidationFailed, verr.Fields, http.StatusBadRequest)
	case errors.Is(err, ErrInvalidJSON):
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
	default:
		logger.Error(serverMessage, "error", err.Error())
		httputil.RespondErrorWithCode(w, serverMessage, httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

// Package handler provides the HTTP handlers for the review API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prlocal/prlocal/internal/config"
	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/review"
)

// PRHandler serves the JSON API over the review service.
type PRHandler struct {
	cfg    *config.Config
	svc    *review.Service
	logger *slog.Logger
}

// NewPRHandler creates a new PR API handler.
func NewPRHandler(cfg *config.Config, svc *review.Service, logger *slog.Logger) *PRHandler {
	return &PRHandler{cfg: cfg, svc: svc, logger: logger}
}

type createPRRequest struct {
	RepoPath    string `json:"repo_path"`
	Title       string `json:"title"`
	Description string `json:"description"`
	BaseRef     string `json:"base_ref"`
	HeadRef     string `json:"head_ref"`
}

type createPRResponse struct {
	PR        *core.PullRequest `json:"pr"`
	DiffEmpty bool              `json:"diff_empty"`
	ReviewURL string            `json:"review_url"`
}

// Create handles POST /prs.
func (h *PRHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, &core.ValidationError{Msg: "invalid request body"})
		return
	}

	res, err := h.svc.Create(r.Context(), review.CreateRequest{
		RepoPath:    req.RepoPath,
		Title:       req.Title,
		Description: req.Description,
		BaseRef:     req.BaseRef,
		HeadRef:     req.HeadRef,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, createPRResponse{
		PR:        res.PR,
		DiffEmpty: res.DiffEmpty,
		ReviewURL: h.cfg.ReviewURL(res.PR.UUID),
	})
}

// List handles GET /prs with optional repo, status and limit query params.
func (h *PRHandler) List(w http.ResponseWriter, r *http.Request) {
	var status core.PRStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed, err := core.ParsePRStatus(s)
		if err != nil {
			h.respondError(w, err)
			return
		}
		status = parsed
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			h.respondError(w, &core.ValidationError{Msg: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	prs, err := h.svc.List(r.Context(), r.URL.Query().Get("repo"), status, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, prs)
}

// Get handles GET /prs/{uuid}.
func (h *PRHandler) Get(w http.ResponseWriter, r *http.Request) {
	pr, err := h.svc.Get(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pr)
}

// GetDiff handles GET /prs/{uuid}/diff, returning the latest revision.
func (h *PRHandler) GetDiff(w http.ResponseWriter, r *http.Request) {
	rev, err := h.svc.LatestDiff(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rev)
}

// ListRevisions handles GET /prs/{uuid}/revisions.
func (h *PRHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	revs, err := h.svc.Revisions(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, revs)
}

type updatePRRequest struct {
	RepoPath string `json:"repo_path"`
}

type updatePRResponse struct {
	PR        *core.PullRequest `json:"pr"`
	Revision  int               `json:"revision"`
	DiffEmpty bool              `json:"diff_empty"`
}

// Update handles POST /prs/{uuid}/diff, appending a new revision and
// resetting the verdict to pending.
func (h *PRHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePRRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, &core.ValidationError{Msg: "invalid request body"})
			return
		}
	}

	res, err := h.svc.Update(r.Context(), chi.URLParam(r, "uuid"), req.RepoPath)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, updatePRResponse{
		PR:        res.PR,
		Revision:  res.Revision,
		DiffEmpty: res.DiffEmpty,
	})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PUT /prs/{uuid}/status.
func (h *PRHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, &core.ValidationError{Msg: "invalid request body"})
		return
	}
	status, err := core.ParsePRStatus(req.Status)
	if err != nil {
		h.respondError(w, err)
		return
	}

	pr, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "uuid"), status)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pr)
}

type mergeRequest struct {
	Push         bool   `json:"push"`
	DeleteBranch bool   `json:"delete_branch"`
	RepoPath     string `json:"repo_path"`
}

type mergeResponse struct {
	PR       *core.PullRequest `json:"pr"`
	Message  string            `json:"message"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Merge handles POST /prs/{uuid}/merge.
func (h *PRHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, &core.ValidationError{Msg: "invalid request body"})
			return
		}
	}

	res, err := h.svc.Merge(r.Context(), chi.URLParam(r, "uuid"), review.MergeOptions{
		Push:         req.Push,
		DeleteBranch: req.DeleteBranch,
		RepoPath:     req.RepoPath,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, mergeResponse{
		PR:       res.PR,
		Message:  res.Message,
		Warnings: res.Warnings,
	})
}

type addCommentRequest struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
	Content    string `json:"content"`
}

// AddComment handles POST /prs/{uuid}/comments.
func (h *PRHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, &core.ValidationError{Msg: "invalid request body"})
		return
	}

	if _, err := h.svc.Get(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		h.respondError(w, err)
		return
	}
	comment, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "uuid"), req.FilePath, req.LineNumber, req.Content)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, comment)
}

// ListComments handles GET /prs/{uuid}/comments. The unresolved query param
// limits the result to open threads.
func (h *PRHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	unresolvedOnly := r.URL.Query().Get("unresolved") == "true"
	threads, err := h.svc.Comments(r.Context(), chi.URLParam(r, "uuid"), unresolvedOnly)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, threads)
}

type replyRequest struct {
	Message string `json:"message"`
	Author  string `json:"author"`
}

// Reply handles POST /prs/{uuid}/comments/{comment}/replies.
func (h *PRHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, &core.ValidationError{Msg: "invalid request body"})
		return
	}
	if req.Author == "" {
		req.Author = h.cfg.DefaultAuthor
	}

	reply, err := h.svc.Reply(r.Context(), chi.URLParam(r, "uuid"), chi.URLParam(r, "comment"), req.Message, req.Author)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, reply)
}

// Resolve handles POST /prs/{uuid}/comments/{comment}/resolve.
func (h *PRHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	comment, err := h.svc.Comments(r.Context(), chi.URLParam(r, "uuid"), false)
	if err != nil {
		h.respondError(w, err)
		return
	}
	target := chi.URLParam(r, "comment")
	for _, thread := range comment {
		if thread.Comment.UUID == target {
			if err := h.svc.Resolve(r.Context(), target); err != nil {
				h.respondError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	h.respondError(w, core.ErrNotFound)
}

func (h *PRHandler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain errors onto HTTP status codes. Validation is a
// client error, transition and precondition failures are conflicts, and git
// failures surface as a bad gateway.
func (h *PRHandler) respondError(w http.ResponseWriter, err error) {
	var (
		verr *core.ValidationError
		terr *core.InvalidTransitionError
		perr *core.PreconditionFailedError
		cerr *core.CollaboratorError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.As(err, &terr), errors.As(err, &perr):
		status = http.StatusConflict
	case errors.As(err, &cerr):
		status = http.StatusBadGateway
	default:
		h.logger.Error("request failed", "error", err)
	}

	h.respondJSON(w, status, errorResponse{Error: err.Error()})
}

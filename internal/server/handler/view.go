package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/review"
)

// ViewHandler renders a read-only HTML page for a PR so a reviewer can read
// the diff and comment threads in a browser.
type ViewHandler struct {
	svc    *review.Service
	logger *slog.Logger
	tmpl   *template.Template
}

// NewViewHandler creates a new HTML view handler.
func NewViewHandler(svc *review.Service, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{
		svc:    svc,
		logger: logger,
		tmpl:   template.Must(template.New("pr").Parse(prPageTemplate)),
	}
}

type prPageData struct {
	PR       *core.PullRequest
	Revision *core.DiffRevision
	Threads  []*core.CommentThread
}

// Show handles GET /prs/{uuid}.
func (h *ViewHandler) Show(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	pr, err := h.svc.Get(r.Context(), uuid)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to load pull request", "uuid", uuid, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rev, err := h.svc.LatestDiff(r.Context(), uuid)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		h.logger.Error("failed to load diff", "uuid", uuid, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	threads, err := h.svc.Comments(r.Context(), uuid, false)
	if err != nil {
		h.logger.Error("failed to load comments", "uuid", uuid, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, prPageData{PR: pr, Revision: rev, Threads: threads}); err != nil {
		h.logger.Error("failed to render page", "uuid", uuid, "error", err)
	}
}

const prPageTemplate = `<!DOCTYPE html>
<html>
<head>
<title>{{.PR.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; padding: 0 1em; }
pre { background: #f6f8fa; padding: 1em; overflow-x: auto; font-size: 0.85em; }
.status { display: inline-block; padding: 0.2em 0.6em; border-radius: 1em; background: #eee; }
.comment { border: 1px solid #ddd; border-radius: 6px; padding: 0.6em 1em; margin: 1em 0; }
.comment.resolved { opacity: 0.6; }
.anchor { color: #555; font-size: 0.85em; }
.reply { margin-left: 1.5em; border-left: 3px solid #ddd; padding-left: 1em; margin-top: 0.5em; }
</style>
</head>
<body>
<h1>{{.PR.Title}}</h1>
<p><span class="status">{{.PR.Status}}</span>
{{.PR.HeadRef}} &rarr; {{.PR.BaseRef}} in {{.PR.RepoPath}}</p>
{{if .PR.Description}}<p>{{.PR.Description}}</p>{{end}}
{{if .Revision}}
<h2>Diff (revision {{.Revision.RevisionNumber}})</h2>
<pre>{{.Revision.DiffText}}</pre>
{{end}}
<h2>Comments</h2>
{{range .Threads}}
<div class="comment{{if .Comment.Resolved}} resolved{{end}}">
<div class="anchor">{{.Comment.FilePath}}:{{.Comment.LineNumber}}{{if .Comment.Resolved}} &mdash; resolved{{end}}</div>
<p>{{.Comment.Content}}</p>
{{range .Replies}}
<div class="reply"><strong>{{.Author}}</strong>: {{.Content}}</div>
{{end}}
</div>
{{else}}
<p>No comments.</p>
{{end}}
</body>
</html>
`

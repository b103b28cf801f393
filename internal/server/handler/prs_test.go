package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/prlocal/prlocal/internal/config"
	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/db"
	"github.com/prlocal/prlocal/internal/gitops"
	"github.com/prlocal/prlocal/internal/gitops/mock"
	"github.com/prlocal/prlocal/internal/logger"
	"github.com/prlocal/prlocal/internal/review"
	"github.com/prlocal/prlocal/internal/server"
	"github.com/prlocal/prlocal/internal/storage"
)

type apiFixture struct {
	srv  *httptest.Server
	git  *mock.MockGit
	repo string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	conn, cleanup, err := db.NewDatabase(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	git := mock.NewMockGit(gomock.NewController(t))
	store := storage.NewStore(conn.DB)

	cfg := &config.Config{
		Server:        config.ServerConfig{Host: "localhost", Port: "3456"},
		DefaultAuthor: "claude",
	}
	log := logger.NewLogger(logger.Config{Level: "error", Format: "text", Output: "stderr"}, io.Discard)

	svc := review.NewService(store, git, log)
	srv := httptest.NewServer(server.NewRouter(cfg, svc, log))
	t.Cleanup(srv.Close)

	return &apiFixture{srv: srv, git: git, repo: t.TempDir()}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// createPR creates a main -> feature-x PR through the API with the mock git
// primed, and returns its uuid.
func (f *apiFixture) createPR(t *testing.T) string {
	t.Helper()
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "main").Return("aaa111", nil)
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "feature-x").Return("bbb222", nil)
	f.git.EXPECT().Diff(gomock.Any(), f.repo, "main", "feature-x").Return("diff\n", nil)

	resp := f.do(t, http.MethodPost, "/api/v1/prs", map[string]string{
		"repo_path": f.repo,
		"title":     "Add login handler",
		"base_ref":  "main",
		"head_ref":  "feature-x",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[struct {
		PR        core.PullRequest `json:"pr"`
		ReviewURL string           `json:"review_url"`
	}](t, resp)
	assert.Contains(t, created.ReviewURL, "/prs/"+created.PR.UUID)
	return created.PR.UUID
}

func TestCreateAndGetPR(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodGet, "/api/v1/prs/"+uuid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pr := decode[core.PullRequest](t, resp)
	assert.Equal(t, core.StatusPending, pr.Status)
	assert.Equal(t, "Add login handler", pr.Title)
}

func TestCreatePR_Validation(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/prs", map[string]string{
		"repo_path": f.repo, "base_ref": "main", "head_ref": "feature-x",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPR_NotFound(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, http.MethodGet, "/api/v1/prs/no-such-uuid", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPRs_StatusFilter(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodPut, "/api/v1/prs/"+uuid+"/status", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/v1/prs?status=approved", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prs := decode[[]core.PullRequest](t, resp)
	require.Len(t, prs, 1)
	assert.Equal(t, uuid, prs[0].UUID)

	resp = f.do(t, http.MethodGet, "/api/v1/prs?status=pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	prs = decode[[]core.PullRequest](t, resp)
	assert.Empty(t, prs)
}

func TestSetStatus_InvalidTransition(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodPut, "/api/v1/prs/"+uuid+"/status", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPut, "/api/v1/prs/"+uuid+"/status", map[string]string{"status": "changes_requested"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSetStatus_MergedRejected(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodPut, "/api/v1/prs/"+uuid+"/status", map[string]string{"status": "merged"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateDiff(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	f.git.EXPECT().Diff(gomock.Any(), f.repo, "main", "feature-x").Return("new diff\n", nil)
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "feature-x").Return("ccc333", nil)

	resp := f.do(t, http.MethodPost, "/api/v1/prs/"+uuid+"/diff", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[struct {
		Revision int `json:"revision"`
	}](t, resp)
	assert.Equal(t, 2, updated.Revision)

	resp = f.do(t, http.MethodGet, "/api/v1/prs/"+uuid+"/revisions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	revs := decode[[]core.DiffRevision](t, resp)
	assert.Len(t, revs, 2)
}

func TestMerge_Conflict(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodPut, "/api/v1/prs/"+uuid+"/status", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	f.git.EXPECT().HasUncommittedChanges(gomock.Any(), f.repo).Return(false, nil)
	f.git.EXPECT().Merge(gomock.Any(), f.repo, "feature-x", "main").
		Return(gitops.Result{Success: false, Message: "CONFLICT (content): a.go"}, nil)

	resp = f.do(t, http.MethodPost, "/api/v1/prs/"+uuid+"/merge", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestMerge_NotApproved(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodPost, "/api/v1/prs/"+uuid+"/merge", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCommentFlow(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodPost, "/api/v1/prs/"+uuid+"/comments", map[string]any{
		"file_path": "src/a.py", "line_number": 42, "content": "missing error check",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comment := decode[core.Comment](t, resp)

	resp = f.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/prs/%s/comments/%s/replies", uuid, comment.UUID),
		map[string]string{"message": "fixed"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reply := decode[core.Reply](t, resp)
	assert.Equal(t, "claude", reply.Author, "author defaults from config")

	resp = f.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/prs/%s/comments/%s/resolve", uuid, comment.UUID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/v1/prs/"+uuid+"/comments?unresolved=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	threads := decode[[]core.CommentThread](t, resp)
	assert.Empty(t, threads)
}

func TestResolve_UnknownComment(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodPost, "/api/v1/prs/"+uuid+"/comments/no-such-comment/resolve", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReviewPage(t *testing.T) {
	f := newAPIFixture(t)
	uuid := f.createPR(t)

	resp := f.do(t, http.MethodGet, "/prs/"+uuid, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, http.MethodGet, "/health", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

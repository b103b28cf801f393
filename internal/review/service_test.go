package review_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/prlocal/prlocal/internal/core"
	"github.com/prlocal/prlocal/internal/db"
	"github.com/prlocal/prlocal/internal/gitops"
	"github.com/prlocal/prlocal/internal/gitops/mock"
	"github.com/prlocal/prlocal/internal/review"
	"github.com/prlocal/prlocal/internal/storage"
)

type fixture struct {
	svc   *review.Service
	store storage.Store
	git   *mock.MockGit
	repo  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, cleanup, err := db.NewDatabase(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	ctrl := gomock.NewController(t)
	git := mock.NewMockGit(ctrl)
	store := storage.NewStore(conn.DB)
	return &fixture{
		svc:   review.NewService(store, git, nil),
		store: store,
		git:   git,
		repo:  t.TempDir(),
	}
}

// createPR drives Service.Create with the mock git primed for a main ->
// feature-x PR.
func (f *fixture) createPR(t *testing.T) *core.PullRequest {
	t.Helper()
	ctx := context.Background()
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "main").Return("aaa111", nil)
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "feature-x").Return("bbb222", nil)
	f.git.EXPECT().Diff(gomock.Any(), f.repo, "main", "feature-x").Return("diff --git a/a.go b/a.go\n", nil)

	res, err := f.svc.Create(ctx, review.CreateRequest{
		RepoPath: f.repo,
		Title:    "Add login handler",
		BaseRef:  "main",
		HeadRef:  "feature-x",
	})
	require.NoError(t, err)
	return res.PR
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	pr := f.createPR(t)

	assert.Equal(t, core.StatusPending, pr.Status)
	assert.Equal(t, "feature-x", pr.HeadRef)
	assert.Equal(t, "bbb222", pr.HeadCommit)

	rev, err := f.svc.LatestDiff(context.Background(), pr.UUID)
	require.NoError(t, err)
	assert.Equal(t, 1, rev.RevisionNumber)
}

func TestCreate_HeadDefaultsToCurrentBranch(t *testing.T) {
	f := newFixture(t)
	f.git.EXPECT().CurrentBranch(gomock.Any(), f.repo).Return("feature-x", nil)
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "main").Return("aaa111", nil)
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "feature-x").Return("bbb222", nil)
	f.git.EXPECT().Diff(gomock.Any(), f.repo, "main", "feature-x").Return("", nil)

	res, err := f.svc.Create(context.Background(), review.CreateRequest{
		RepoPath: f.repo,
		Title:    "Add login handler",
		BaseRef:  "main",
	})
	require.NoError(t, err)
	assert.Equal(t, "feature-x", res.PR.HeadRef)
	assert.True(t, res.DiffEmpty)
}

func TestCreate_SameHeadAndBase(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), review.CreateRequest{
		RepoPath: f.repo, Title: "x", BaseRef: "main", HeadRef: "main",
	})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreate_BaseRefMissing(t *testing.T) {
	f := newFixture(t)
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "release").Return("", gitops.ErrRefNotFound)

	_, err := f.svc.Create(context.Background(), review.CreateRequest{
		RepoPath: f.repo, Title: "x", BaseRef: "release", HeadRef: "feature-x",
	})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Msg, "release")
}

func TestUpdate_ResetsVerdictToPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.createPR(t)

	_, err := f.svc.Approve(ctx, pr.UUID)
	require.NoError(t, err)

	f.git.EXPECT().Diff(gomock.Any(), pr.RepoPath, "main", "feature-x").Return("new diff\n", nil)
	f.git.EXPECT().CommitSHA(gomock.Any(), pr.RepoPath, "feature-x").Return("ccc333", nil)

	res, err := f.svc.Update(ctx, pr.UUID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Revision)
	assert.Equal(t, core.StatusPending, res.PR.Status)
	assert.Equal(t, "ccc333", res.PR.HeadCommit)
}

func TestUpdate_TerminalPR(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.createPR(t)

	_, err := f.svc.Close(ctx, pr.UUID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, pr.UUID, "")
	var terr *core.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, core.StatusClosed, terr.From)
}

func TestSetStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		prep    func(t *testing.T, f *fixture, id string)
		status  core.PRStatus
		wantErr bool
	}{
		{"approve pending", nil, core.StatusApproved, false},
		{"request changes on pending", nil, core.StatusChangesRequested, false},
		{"close pending", nil, core.StatusClosed, false},
		{
			"flip approved to changes requested",
			func(t *testing.T, f *fixture, id string) {
				_, err := f.svc.Approve(context.Background(), id)
				require.NoError(t, err)
			},
			core.StatusChangesRequested, true,
		},
		{
			"approve closed",
			func(t *testing.T, f *fixture, id string) {
				_, err := f.svc.Close(context.Background(), id)
				require.NoError(t, err)
			},
			core.StatusApproved, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			pr := f.createPR(t)
			if tt.prep != nil {
				tt.prep(t, f, pr.UUID)
			}

			_, err := f.svc.SetStatus(context.Background(), pr.UUID, tt.status)
			if tt.wantErr {
				var terr *core.InvalidTransitionError
				require.ErrorAs(t, err, &terr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSetStatus_MergedIsReserved(t *testing.T) {
	f := newFixture(t)
	pr := f.createPR(t)

	_, err := f.svc.SetStatus(context.Background(), pr.UUID, core.StatusMerged)
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestMerge_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.createPR(t)

	_, err := f.svc.Approve(ctx, pr.UUID)
	require.NoError(t, err)

	f.git.EXPECT().HasUncommittedChanges(gomock.Any(), pr.RepoPath).Return(false, nil)
	f.git.EXPECT().Merge(gomock.Any(), pr.RepoPath, "feature-x", "main").
		Return(gitops.Result{Success: true, Message: "Merged feature-x into main"}, nil)

	res, err := f.svc.Merge(ctx, pr.UUID, review.MergeOptions{Push: false})
	require.NoError(t, err)
	assert.Equal(t, core.StatusMerged, res.PR.Status)
	assert.Empty(t, res.Warnings)

	// Merged is absorbing: a second merge fails without touching git.
	_, err = f.svc.Merge(ctx, pr.UUID, review.MergeOptions{})
	var terr *core.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, core.StatusMerged, terr.From)
}

func TestMerge_NotApproved(t *testing.T) {
	f := newFixture(t)
	pr := f.createPR(t)

	_, err := f.svc.Merge(context.Background(), pr.UUID, review.MergeOptions{})
	var terr *core.InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, core.StatusPending, terr.From)

	got, err := f.svc.Get(context.Background(), pr.UUID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, got.Status)
}

func TestMerge_DirtyWorktree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.createPR(t)

	_, err := f.svc.Approve(ctx, pr.UUID)
	require.NoError(t, err)

	f.git.EXPECT().HasUncommittedChanges(gomock.Any(), pr.RepoPath).Return(true, nil)

	_, err = f.svc.Merge(ctx, pr.UUID, review.MergeOptions{})
	var perr *core.PreconditionFailedError
	require.ErrorAs(t, err, &perr)

	got, err := f.svc.Get(ctx, pr.UUID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusApproved, got.Status, "failed merge must not mutate status")
}

func TestMerge_GitFailureLeavesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.createPR(t)

	_, err := f.svc.Approve(ctx, pr.UUID)
	require.NoError(t, err)

	f.git.EXPECT().HasUncommittedChanges(gomock.Any(), pr.RepoPath).Return(false, nil)
	f.git.EXPECT().Merge(gomock.Any(), pr.RepoPath, "feature-x", "main").
		Return(gitops.Result{Success: false, Message: "CONFLICT (content): a.go"}, nil)

	_, err = f.svc.Merge(ctx, pr.UUID, review.MergeOptions{})
	var cerr *core.CollaboratorError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Message, "CONFLICT")

	got, err := f.svc.Get(ctx, pr.UUID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusApproved, got.Status)
}

func TestMerge_PostStepFailuresAreWarnings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.createPR(t)

	_, err := f.svc.Approve(ctx, pr.UUID)
	require.NoError(t, err)

	f.git.EXPECT().HasUncommittedChanges(gomock.Any(), pr.RepoPath).Return(false, nil)
	f.git.EXPECT().Merge(gomock.Any(), pr.RepoPath, "feature-x", "main").
		Return(gitops.Result{Success: true, Message: "Merged feature-x into main"}, nil)
	f.git.EXPECT().Push(gomock.Any(), pr.RepoPath).
		Return(gitops.Result{Success: false, Message: "no upstream configured"}, nil)
	f.git.EXPECT().DeleteBranch(gomock.Any(), pr.RepoPath, "feature-x").
		Return(gitops.Result{Success: false, Message: "branch not fully merged"}, nil)

	res, err := f.svc.Merge(ctx, pr.UUID, review.MergeOptions{Push: true, DeleteBranch: true})
	require.NoError(t, err)
	assert.Equal(t, core.StatusMerged, res.PR.Status, "post-step failures never roll back the merge")
	assert.Len(t, res.Warnings, 2)
}

func TestCommentScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pr := f.createPR(t)

	c, err := f.svc.AddComment(ctx, pr.UUID, "src/a.py", 42, "missing error check")
	require.NoError(t, err)

	_, err = f.svc.Reply(ctx, pr.UUID, c.UUID, "fixed", "claude")
	require.NoError(t, err)

	threads, err := f.svc.Comments(ctx, pr.UUID, true)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.False(t, threads[0].Comment.Resolved)
	assert.Equal(t, "src/a.py", threads[0].Comment.FilePath)
	assert.Equal(t, 42, threads[0].Comment.LineNumber)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, "claude", threads[0].Replies[0].Author)
	assert.Equal(t, "fixed", threads[0].Replies[0].Content)

	// Resolving is independent of PR status.
	require.NoError(t, f.svc.Resolve(ctx, c.UUID))
	got, err := f.svc.Get(ctx, pr.UUID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, got.Status)

	threads, err = f.svc.Comments(ctx, pr.UUID, true)
	require.NoError(t, err)
	assert.Empty(t, threads)
}

func TestAddComment_Validation(t *testing.T) {
	f := newFixture(t)
	pr := f.createPR(t)

	var verr *core.ValidationError
	_, err := f.svc.AddComment(context.Background(), pr.UUID, "", 1, "x")
	require.ErrorAs(t, err, &verr)
	_, err = f.svc.AddComment(context.Background(), pr.UUID, "a.go", 0, "x")
	require.ErrorAs(t, err, &verr)
	_, err = f.svc.AddComment(context.Background(), pr.UUID, "a.go", 1, "  ")
	require.ErrorAs(t, err, &verr)
}

func TestReply_WrongPR(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createPR(t)

	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "main").Return("aaa111", nil)
	f.git.EXPECT().CommitSHA(gomock.Any(), f.repo, "feature-y").Return("ddd444", nil)
	f.git.EXPECT().Diff(gomock.Any(), f.repo, "main", "feature-y").Return("diff\n", nil)
	other, err := f.svc.Create(ctx, review.CreateRequest{
		RepoPath: f.repo, Title: "Other", BaseRef: "main", HeadRef: "feature-y",
	})
	require.NoError(t, err)

	c, err := f.svc.AddComment(ctx, a.UUID, "src/a.py", 1, "note")
	require.NoError(t, err)

	_, err = f.svc.Reply(ctx, other.PR.UUID, c.UUID, "fixed", "claude")
	require.ErrorIs(t, err, core.ErrNotFound)
}

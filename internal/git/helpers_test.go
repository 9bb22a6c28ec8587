package git

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// fixture is a repository whose commits get strictly increasing timestamps.
type fixture struct {
	t     *testing.T
	fs    billy.Filesystem
	repo  *gogit.Repository
	wt    *gogit.Worktree
	clock time.Time
}

func newMemFixture(t *testing.T) *fixture {
	t.Helper()
	fs := memfs.New()
	repo, err := gogit.Init(memory.NewStorage(), fs)
	require.NoError(t, err)
	return wrapFixture(t, repo, fs)
}

func wrapFixture(t *testing.T, repo *gogit.Repository, fs billy.Filesystem) *fixture {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &fixture{
		t:     t,
		fs:    fs,
		repo:  repo,
		wt:    wt,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) backend(opts Options) *Repository {
	return New(f.repo, f.fs.Root(), opts)
}

func (f *fixture) write(name, content string) {
	f.t.Helper()
	require.NoError(f.t, util.WriteFile(f.fs, name, []byte(content), 0o644))
}

// commit writes files, stages them, and commits. With parents set the
// commit becomes a merge of those parents.
func (f *fixture) commit(msg string, files map[string]string, parents ...plumbing.Hash) plumbing.Hash {
	f.t.Helper()
	for name, content := range files {
		f.write(name, content)
		_, err := f.wt.Add(name)
		require.NoError(f.t, err)
	}
	f.clock = f.clock.Add(time.Minute)
	sig := &object.Signature{Name: "Test User", Email: "test@example.com", When: f.clock}
	hash, err := f.wt.Commit(msg, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(f.t, err)
	return hash
}

func (f *fixture) branch(name string, at plumbing.Hash) {
	f.t.Helper()
	require.NoError(f.t, f.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), at)))
}

func (f *fixture) switchTo(name string) {
	f.t.Helper()
	require.NoError(f.t, f.wt.Checkout(&gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name), Force: true}))
}

// divergeMerge builds A <- B (master), A <- C (side), D = merge(B, C) on master.
func (f *fixture) divergeMerge() (a, b, c, d plumbing.Hash) {
	a = f.commit("A", map[string]string{"base.txt": "base\n"})
	b = f.commit("B", map[string]string{"main.txt": "main\n"})
	f.branch("side", a)
	f.switchTo("side")
	c = f.commit("C", map[string]string{"side.txt": "side\n"})
	f.switchTo("master")
	d = f.commit("D", map[string]string{"side.txt": "side\n"}, b, c)
	return a, b, c, d
}

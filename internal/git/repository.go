package git

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	log "github.com/chmouel/lazygraph/internal/log"
	"github.com/chmouel/lazygraph/internal/models"
)

// Defaults for the static limits.
const (
	DefaultCommitLimit   = 500
	DefaultDiffFileLimit = 50
	DefaultRemote        = "origin"
)

// maxTagDepth bounds tag-of-tag chains when peeling.
const maxTagDepth = 8

// Options configure a Repository.
type Options struct {
	DiffFileLimit int
	Stats         *StatCache
}

// Repository is the go-git backed Backend.
type Repository struct {
	repo  *gogit.Repository
	root  string
	opts  Options
	stats *StatCache
}

var _ Backend = (*Repository)(nil)

// Discover opens the repository enclosing startDir.
func Discover(startDir string, opts Options) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(startDir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w in %s or any parent directory", ErrRepositoryNotFound, startDir)
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	root := startDir
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	log.Printf("repository: %s", root)
	return New(repo, root, opts), nil
}

// New wraps an already opened repository.
func New(repo *gogit.Repository, root string, opts Options) *Repository {
	if opts.DiffFileLimit <= 0 {
		opts.DiffFileLimit = DefaultDiffFileLimit
	}
	return &Repository{repo: repo, root: root, opts: opts, stats: opts.Stats}
}

// Root returns the working tree directory.
func (r *Repository) Root() string { return r.root }

// Raw exposes the underlying go-git repository.
func (r *Repository) Raw() *gogit.Repository { return r.repo }

// GitDir returns the on-disk .git directory, or "" for in-memory storage.
func (r *Repository) GitDir() string {
	if st, ok := r.repo.Storer.(*filesystem.Storage); ok {
		return st.Filesystem().Root()
	}
	return ""
}

// ListRefs returns local branches, remote branches and tags sorted by kind
// then name. Remote HEAD pointers are skipped and annotated tags are peeled
// to the commit they name.
func (r *Repository) ListRefs(ctx context.Context) ([]models.Ref, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	defer iter.Close()

	var refs []models.Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		short := name.Short()
		switch {
		case name.IsBranch():
			refs = append(refs, models.Ref{Kind: models.RefLocal, Name: short, Hash: ref.Hash().String()})
		case name.IsRemote():
			if strings.HasSuffix(short, "/HEAD") {
				return nil
			}
			remote, _, _ := strings.Cut(short, "/")
			refs = append(refs, models.Ref{Kind: models.RefRemote, Name: short, Hash: ref.Hash().String(), Remote: remote})
		case name.IsTag():
			hash, ok := r.peelTag(ref.Hash())
			if !ok {
				return nil
			}
			refs = append(refs, models.Ref{Kind: models.RefTag, Name: short, Hash: hash.String()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Kind != refs[j].Kind {
			return refs[i].Kind < refs[j].Kind
		}
		return refs[i].Name < refs[j].Name
	})
	return refs, nil
}

func (r *Repository) peelTag(hash plumbing.Hash) (plumbing.Hash, bool) {
	if _, err := r.repo.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for range maxTagDepth {
		tag, err := r.repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}

// Head returns the commit HEAD points at and its branch, empty when
// detached. An unborn HEAD yields empty values and no error.
func (r *Repository) Head(_ context.Context) (string, string, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("resolve HEAD: %w", err)
	}
	branch := ""
	if ref.Name().IsBranch() {
		branch = ref.Name().Short()
	}
	return ref.Hash().String(), branch, nil
}

// WalkCommits returns up to limit commits reachable from any ref or HEAD,
// children before parents, newer commits first where the order is free.
//
// The window is picked newest-first by committer date, then sorted
// topologically inside itself so that clock skew can never place a parent
// above its child.
func (r *Repository) WalkCommits(ctx context.Context, limit int) ([]models.Commit, error) {
	if limit <= 0 {
		return nil, nil
	}
	tips, err := r.tips(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]bool, limit)
	frontier := &commitHeap{}
	push := func(h plumbing.Hash) {
		if seen[h] {
			return
		}
		seen[h] = true
		c, err := r.repo.CommitObject(h)
		if err != nil {
			// shallow clones and broken refs simply end the walk on that path
			log.Printf("walk: skip %s: %v", h, err)
			return
		}
		heap.Push(frontier, c)
	}
	for _, h := range tips {
		push(h)
	}

	window := make([]*object.Commit, 0, limit)
	for frontier.Len() > 0 && len(window) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := heap.Pop(frontier).(*object.Commit)
		window = append(window, c)
		for _, p := range c.ParentHashes {
			push(p)
		}
	}

	ordered := topoSort(window)
	commits := make([]models.Commit, 0, len(ordered))
	for _, c := range ordered {
		commits = append(commits, toModel(c))
	}
	log.Debug("walk", "commits", len(commits), "limit", limit, "tips", len(tips))
	return commits, nil
}

func (r *Repository) tips(ctx context.Context) ([]plumbing.Hash, error) {
	refs, err := r.ListRefs(ctx)
	if err != nil {
		return nil, err
	}
	var tips []plumbing.Hash
	if head, err := r.repo.Head(); err == nil {
		tips = append(tips, head.Hash())
	}
	for _, ref := range refs {
		tips = append(tips, plumbing.NewHash(ref.Hash))
	}
	return tips, nil
}

// topoSort orders commits so every commit precedes its parents within the
// set, breaking ties by committer date, newest first.
func topoSort(window []*object.Commit) []*object.Commit {
	inWindow := make(map[plumbing.Hash]*object.Commit, len(window))
	for _, c := range window {
		inWindow[c.Hash] = c
	}
	children := make(map[plumbing.Hash]int, len(window))
	for _, c := range window {
		for _, p := range uniqueHashes(c.ParentHashes) {
			if _, ok := inWindow[p]; ok {
				children[p]++
			}
		}
	}

	ready := &commitHeap{}
	for _, c := range window {
		if children[c.Hash] == 0 {
			heap.Push(ready, c)
		}
	}
	out := make([]*object.Commit, 0, len(window))
	for ready.Len() > 0 {
		c := heap.Pop(ready).(*object.Commit)
		out = append(out, c)
		for _, p := range uniqueHashes(c.ParentHashes) {
			parent, ok := inWindow[p]
			if !ok {
				continue
			}
			children[p]--
			if children[p] == 0 {
				heap.Push(ready, parent)
			}
		}
	}
	return out
}

func uniqueHashes(hashes []plumbing.Hash) []plumbing.Hash {
	if len(hashes) < 2 {
		return hashes
	}
	out := make([]plumbing.Hash, 0, len(hashes))
	seen := make(map[plumbing.Hash]bool, len(hashes))
	for _, h := range hashes {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

func toModel(c *object.Commit) models.Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	hash := c.Hash.String()
	return models.Commit{
		Hash:      hash,
		ShortHash: models.ShortenHash(hash),
		Parents:   parents,
		Author:    c.Author.Name,
		When:      c.Author.When,
		Subject:   strings.TrimSpace(subject),
	}
}

// commitHeap pops the newest commit by committer date; equal dates fall
// back to hash order so walks are deterministic.
type commitHeap []*object.Commit

func (h commitHeap) Len() int { return len(h) }
func (h commitHeap) Less(i, j int) bool {
	a, b := h[i].Committer.When, h[j].Committer.When
	if !a.Equal(b) {
		return a.After(b)
	}
	return h[i].Hash.String() < h[j].Hash.String()
}
func (h commitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *commitHeap) Push(x any)   { *h = append(*h, x.(*object.Commit)) }
func (h *commitHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}

// DiffStat summarises the files a commit changed against its first parent,
// or against the empty tree for a root commit. Binary files are counted but
// not listed, and at most the configured number of files is examined.
func (r *Repository) DiffStat(ctx context.Context, hash string) (models.DiffStat, error) {
	if stat, ok := r.stats.Get(hash); ok {
		return stat, nil
	}

	c, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return models.DiffStat{}, fmt.Errorf("diff stat %s: %w", models.ShortenHash(hash), err)
	}
	tree, err := c.Tree()
	if err != nil {
		return models.DiffStat{}, fmt.Errorf("diff stat %s: %w", models.ShortenHash(hash), err)
	}
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return models.DiffStat{}, fmt.Errorf("diff stat %s: parent: %w", models.ShortenHash(hash), err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return models.DiffStat{}, fmt.Errorf("diff stat %s: parent tree: %w", models.ShortenHash(hash), err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return models.DiffStat{}, fmt.Errorf("diff stat %s: %w", models.ShortenHash(hash), err)
	}

	stat := models.DiffStat{Hash: hash, TotalFiles: len(changes)}
	if len(changes) > r.opts.DiffFileLimit {
		stat.Truncated = true
		changes = changes[:r.opts.DiffFileLimit]
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return models.DiffStat{}, fmt.Errorf("diff stat %s: %w", models.ShortenHash(hash), err)
	}

	for i, fp := range patch.FilePatches() {
		change := changes[i]
		if isBinaryChange(change) {
			stat.SkippedBinary++
			continue
		}
		fs := models.FileStat{Path: changePath(change), Change: changeKind(change)}
		for _, chunk := range fp.Chunks() {
			switch chunk.Type() {
			case fdiff.Add:
				fs.Added += countLines(chunk.Content())
			case fdiff.Delete:
				fs.Deleted += countLines(chunk.Content())
			}
		}
		stat.Files = append(stat.Files, fs)
	}

	r.stats.Set(hash, stat)
	return stat, nil
}

func isBinaryChange(c *object.Change) bool {
	from, to, err := c.Files()
	if err != nil {
		return false
	}
	for _, f := range []*object.File{from, to} {
		if f == nil {
			continue
		}
		if bin, err := f.IsBinary(); err == nil && bin {
			return true
		}
	}
	return false
}

func changePath(c *object.Change) string {
	if c.To.Name != "" {
		return c.To.Name
	}
	return c.From.Name
}

func changeKind(c *object.Change) models.FileChange {
	action, err := c.Action()
	if err != nil {
		return models.FileModified
	}
	switch action {
	case merkletrie.Insert:
		return models.FileAdded
	case merkletrie.Delete:
		return models.FileDeleted
	default:
		if c.From.Name != "" && c.To.Name != "" && c.From.Name != c.To.Name {
			return models.FileRenamed
		}
		return models.FileModified
	}
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// WorkingTreeDirty reports staged or unstaged changes to tracked files.
// Untracked files do not count. A bare repository is never dirty.
func (r *Repository) WorkingTreeDirty(ctx context.Context) (bool, error) {
	files, err := r.WorkingTreeChanges(ctx)
	return len(files) > 0, err
}

// WorkingTreeChanges lists tracked paths with staged or unstaged changes,
// sorted by path.
func (r *Repository) WorkingTreeChanges(_ context.Context) ([]models.WorktreeFile, error) {
	wt, err := r.repo.Worktree()
	if errors.Is(err, gogit.ErrIsBareRepository) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}
	var files []models.WorktreeFile
	for path, st := range status {
		staged, unstaged := st.Staging, st.Worktree
		if staged == gogit.Untracked {
			continue
		}
		if unstaged == gogit.Untracked {
			unstaged = gogit.Unmodified
		}
		if staged == gogit.Unmodified && unstaged == gogit.Unmodified {
			continue
		}
		files = append(files, models.WorktreeFile{Path: path, Staged: statusLetter(staged), Unstaged: statusLetter(unstaged)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func statusLetter(c gogit.StatusCode) byte {
	if c == gogit.Unmodified {
		return ' '
	}
	return byte(c)
}

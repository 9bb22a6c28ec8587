package git

import (
	"context"
	"errors"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	log "github.com/chmouel/lazygraph/internal/log"
)

// Operation guards.
var (
	ErrCurrentBranch = errors.New("branch is checked out")
	ErrDirtyTree     = errors.New("working tree has uncommitted changes")
	ErrInvalidName   = errors.New("invalid branch name")
	ErrBranchExists  = errors.New("branch already exists")
)

// Checkout switches to target. A local branch is checked out as is. A
// remote branch such as origin/x creates or moves local x to the remote
// commit, tracking the remote when x is new. Anything else resolving to a
// commit detaches HEAD.
func (r *Repository) Checkout(ctx context.Context, target string) error {
	const op = "checkout"

	if dirty, err := r.WorkingTreeDirty(ctx); err != nil {
		return wrapOp(op, target, err)
	} else if dirty {
		return newOpError(op, target, KindConflict, ErrDirtyTree)
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return wrapOp(op, target, err)
	}

	local := plumbing.NewBranchReferenceName(target)
	if _, err := r.repo.Reference(local, true); err == nil {
		return wrapOp(op, target, wt.Checkout(&gogit.CheckoutOptions{Branch: local}))
	}
	if ref, err := r.repo.Reference(plumbing.ReferenceName("refs/remotes/"+target), true); err == nil {
		return wrapOp(op, target, r.checkoutRemote(wt, target, ref))
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(target))
	if err != nil {
		return newOpError(op, target, KindRefNotFound, err)
	}
	return wrapOp(op, target, wt.Checkout(&gogit.CheckoutOptions{Hash: *hash}))
}

func (r *Repository) checkoutRemote(wt *gogit.Worktree, target string, remoteRef *plumbing.Reference) error {
	remote, branch, ok := strings.Cut(target, "/")
	if !ok || branch == "" {
		return newOpError("checkout", target, KindRefNotFound, plumbing.ErrReferenceNotFound)
	}
	local := plumbing.NewBranchReferenceName(branch)

	existing, err := r.repo.Reference(local, true)
	switch {
	case err == nil && existing.Hash() == remoteRef.Hash():
	case err == nil:
		log.Printf("checkout: moving %s to %s", branch, remoteRef.Hash())
		if err := r.repo.Storer.SetReference(plumbing.NewHashReference(local, remoteRef.Hash())); err != nil {
			return err
		}
	default:
		if err := r.repo.Storer.SetReference(plumbing.NewHashReference(local, remoteRef.Hash())); err != nil {
			return err
		}
		err := r.repo.CreateBranch(&config.Branch{Name: branch, Remote: remote, Merge: local})
		if err != nil && !errors.Is(err, gogit.ErrBranchExists) {
			return err
		}
	}
	return wt.Checkout(&gogit.CheckoutOptions{Branch: local})
}

// CreateBranch creates a local branch named name at the commit at resolves to.
func (r *Repository) CreateBranch(_ context.Context, name, at string) error {
	const op = "create branch"

	name = strings.TrimSpace(name)
	ref := plumbing.NewBranchReferenceName(name)
	if name == "" || ref.Validate() != nil {
		return newOpError(op, name, KindIO, ErrInvalidName)
	}
	if _, err := r.repo.Reference(ref, false); err == nil {
		return newOpError(op, name, KindIO, ErrBranchExists)
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(at))
	if err != nil {
		return newOpError(op, at, KindRefNotFound, err)
	}
	return wrapOp(op, name, r.repo.Storer.SetReference(plumbing.NewHashReference(ref, *hash)))
}

// DeleteBranch removes a local branch and its tracking configuration. The
// checked out branch cannot be deleted.
func (r *Repository) DeleteBranch(ctx context.Context, name string) error {
	const op = "delete branch"

	_, current, err := r.Head(ctx)
	if err != nil {
		return wrapOp(op, name, err)
	}
	if current == name {
		return newOpError(op, name, KindConflict, ErrCurrentBranch)
	}
	ref := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(ref, false); err != nil {
		return newOpError(op, name, KindRefNotFound, err)
	}
	if err := r.repo.Storer.RemoveReference(ref); err != nil {
		return wrapOp(op, name, err)
	}
	if err := r.repo.DeleteBranch(name); err != nil && !errors.Is(err, gogit.ErrBranchNotFound) {
		log.Printf("delete branch %s: config: %v", name, err)
	}
	return nil
}

// Merge merges the local branch into HEAD with the git CLI. Conflicts are
// left in the working tree for the user to resolve.
func (r *Repository) Merge(ctx context.Context, branch string) error {
	const op = "merge"
	if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true); err != nil {
		return newOpError(op, branch, KindRefNotFound, err)
	}
	out, err := runGit(ctx, r.root, "merge", "--no-edit", branch)
	if err != nil {
		return newOpError(op, branch, cliKind(out, err), err)
	}
	return nil
}

// Rebase rebases HEAD onto the local branch onto with the git CLI. A
// conflicting rebase stays in progress.
func (r *Repository) Rebase(ctx context.Context, onto string) error {
	const op = "rebase"
	if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(onto), true); err != nil {
		return newOpError(op, onto, KindRefNotFound, err)
	}
	out, err := runGit(ctx, r.root, "rebase", onto)
	if err != nil {
		return newOpError(op, onto, cliKind(out, err), err)
	}
	return nil
}

func cliKind(output string, err error) ErrorKind {
	if errors.Is(err, ErrGitNotInstalled) || errors.Is(err, context.Canceled) {
		return KindIO
	}
	return classifyOutput(output)
}

// Fetch updates remote-tracking refs from remote. Being already up to date
// is not an error.
func (r *Repository) Fetch(ctx context.Context, remote string) error {
	if remote == "" {
		remote = DefaultRemote
	}
	err := r.repo.FetchContext(ctx, &gogit.FetchOptions{RemoteName: remote})
	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		log.Printf("fetch %s: already up to date", remote)
		return nil
	}
	return wrapOp("fetch", remote, err)
}

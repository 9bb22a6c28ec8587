// Package models defines the data objects shared across lazygraph packages.
package models

import "time"

// ShortHashLen is the length of abbreviated commit hashes.
const ShortHashLen = 7

// RefKind tags the variant of a ref.
type RefKind int

// Ref kinds.
const (
	RefLocal RefKind = iota
	RefRemote
	RefTag
)

// String returns a human-readable name for the ref kind.
func (k RefKind) String() string {
	switch k {
	case RefLocal:
		return "local"
	case RefRemote:
		return "remote"
	case RefTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Ref is a named pointer resolved to a commit hash.
type Ref struct {
	Kind   RefKind
	Name   string // short name: main, origin/main, v1.0
	Hash   string
	Remote string // remote name for RefRemote, empty otherwise
}

// IsLocal reports whether the ref is a local branch, the only kind that can be mutated.
func (r Ref) IsLocal() bool { return r.Kind == RefLocal }

// BranchName returns the name without the remote prefix for remote refs.
func (r Ref) BranchName() string {
	if r.Kind == RefRemote && r.Remote != "" && len(r.Name) > len(r.Remote)+1 {
		return r.Name[len(r.Remote)+1:]
	}
	return r.Name
}

// Commit is an immutable record of a single commit.
type Commit struct {
	Hash      string
	ShortHash string
	Parents   []string // first entry is the first parent
	Author    string
	When      time.Time
	Subject   string
	Refs      []Ref
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool { return len(c.Parents) > 1 }

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool { return len(c.Parents) == 0 }

// ShortenHash abbreviates a full hash.
func ShortenHash(hash string) string {
	if len(hash) <= ShortHashLen {
		return hash
	}
	return hash[:ShortHashLen]
}

// Snapshot is the full commit model for one load of the repository.
// It is replaced wholesale on refresh and never mutated in place.
type Snapshot struct {
	Commits    []Commit
	Refs       []Ref
	HeadHash   string
	HeadBranch string // empty when HEAD is detached
	Dirty      bool
	Truncated  bool // history was cut by the commit cap
	LoadedAt   time.Time
}

// IndexOf returns the position of the commit with the given hash, or -1.
func (s *Snapshot) IndexOf(hash string) int {
	if s == nil || hash == "" {
		return -1
	}
	for i := range s.Commits {
		if s.Commits[i].Hash == hash {
			return i
		}
	}
	return -1
}

// AttachRefs fills each commit's Refs from the snapshot ref list,
// preserving ref enumeration order.
func (s *Snapshot) AttachRefs() {
	if s == nil {
		return
	}
	byHash := make(map[string][]Ref, len(s.Refs))
	for _, ref := range s.Refs {
		byHash[ref.Hash] = append(byHash[ref.Hash], ref)
	}
	for i := range s.Commits {
		s.Commits[i].Refs = byHash[s.Commits[i].Hash]
	}
}

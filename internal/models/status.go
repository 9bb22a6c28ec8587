package models

// FileChange is how a path changed in a commit.
type FileChange int

// File change kinds.
const (
	FileModified FileChange = iota
	FileAdded
	FileDeleted
	FileRenamed
)

// Marker returns the one-letter status shown next to a path.
func (c FileChange) Marker() string {
	switch c {
	case FileAdded:
		return "A"
	case FileDeleted:
		return "D"
	case FileRenamed:
		return "R"
	default:
		return "M"
	}
}

// FileStat is the line count change for one path in a commit.
type FileStat struct {
	Path    string
	Change  FileChange
	Added   int
	Deleted int
}

// DiffStat summarises the files changed by a commit.
type DiffStat struct {
	Hash          string
	Files         []FileStat
	TotalFiles    int  // every changed path, including those past the cap
	Truncated     bool // more files changed than the configured cap
	SkippedBinary int
}

// Totals returns the summed additions and deletions.
func (d DiffStat) Totals() (added, deleted int) {
	for _, f := range d.Files {
		added += f.Added
		deleted += f.Deleted
	}
	return added, deleted
}

// WorktreeFile is a tracked path with uncommitted changes. Staged and
// Unstaged hold porcelain status letters, ' ' when unchanged on that side.
type WorktreeFile struct {
	Path     string
	Staged   byte
	Unstaged byte
}

// WorktreeSummary counts the staged and unstaged paths of a working tree.
func WorktreeSummary(files []WorktreeFile) (staged, unstaged int) {
	for _, f := range files {
		if f.Staged != ' ' {
			staged++
		}
		if f.Unstaged != ' ' {
			unstaged++
		}
	}
	return staged, unstaged
}

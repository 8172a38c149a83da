package domain

// ResolutionKind identifies which member of the Resolution union is set.
type ResolutionKind string

const (
	// KindCommit pins a bare commit id.
	KindCommit ResolutionKind = "commit"
	// KindVersion pins a semver tag.
	KindVersion ResolutionKind = "version"
	// KindTag pins a non-semver tag.
	KindTag ResolutionKind = "tag"
	// KindBranch pins a branch head.
	KindBranch ResolutionKind = "branch"
)

// releaseCommitLen is the number of commit characters used as a release label.
const releaseCommitLen = 10

// Resolution is the concrete ref a target resolved to.
// Values are built by the New* constructors and never mutated afterwards.
type Resolution struct {
	Kind   ResolutionKind `json:"type" yaml:"type"`
	Tag    string         `json:"tag,omitempty" yaml:"tag,omitempty"`
	Branch string         `json:"branch,omitempty" yaml:"branch,omitempty"`
	Commit string         `json:"commit" yaml:"commit"`
}

// NewCommit returns a commit resolution.
func NewCommit(commit string) Resolution {
	return Resolution{Kind: KindCommit, Commit: commit}
}

// NewVersion returns a version resolution for a semver tag.
func NewVersion(tag, commit string) Resolution {
	return Resolution{Kind: KindVersion, Tag: tag, Commit: commit}
}

// NewTag returns a tag resolution.
func NewTag(tag, commit string) Resolution {
	return Resolution{Kind: KindTag, Tag: tag, Commit: commit}
}

// NewBranch returns a branch resolution.
func NewBranch(branch, commit string) Resolution {
	return Resolution{Kind: KindBranch, Branch: branch, Commit: commit}
}

// IsZero reports whether r has not been set.
func (r Resolution) IsZero() bool {
	return r.Kind == ""
}

// Ref returns the name handed to a checkout: tag, else branch, else commit.
func (r Resolution) Ref() string {
	switch {
	case r.Tag != "":
		return r.Tag
	case r.Branch != "":
		return r.Branch
	default:
		return r.Commit
	}
}

// Release returns a human-facing label for r. The clean function turns a
// semver tag into its canonical form and reports whether it succeeded.
func (r Resolution) Release(clean func(string) (string, bool)) string {
	if r.Kind == KindVersion && clean != nil {
		if v, ok := clean(r.Tag); ok {
			return v
		}
	}
	if r.Tag != "" {
		return r.Tag
	}
	if len(r.Commit) > releaseCommitLen {
		return r.Commit[:releaseCommitLen]
	}
	return r.Commit
}

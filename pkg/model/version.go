package model

// BumpKeyword denotes a relative semantic version increment.
type BumpKeyword string

const (
	BumpMajor BumpKeyword = "major"
	BumpMinor BumpKeyword = "minor"
	BumpPatch BumpKeyword = "patch"
)

// IsBumpKeyword reports whether s is exactly one of major, minor or patch.
func IsBumpKeyword(s string) bool {
	switch BumpKeyword(s) {
	case BumpMajor, BumpMinor, BumpPatch:
		return true
	}
	return false
}

// VersionTriple holds the candidate next versions computed from the
// manifest's current version, plus the target once one is chosen.
type VersionTriple struct {
	Current string `json:"current"`
	Major   string `json:"major"`
	Minor   string `json:"minor"`
	Patch   string `json:"patch"`
	Target  string `json:"target,omitempty"`
}

// Candidate returns the precomputed increment for a bump keyword.
func (t VersionTriple) Candidate(keyword string) (string, bool) {
	switch BumpKeyword(keyword) {
	case BumpMajor:
		return t.Major, true
	case BumpMinor:
		return t.Minor, true
	case BumpPatch:
		return t.Patch, true
	}
	return "", false
}

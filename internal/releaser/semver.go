package releaser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/grokify/releaseconductor/pkg/model"
)

// ErrInvalidVersion is returned when a requested version is neither a bump
// keyword nor a valid semantic version.
var ErrInvalidVersion = errors.New("invalid version")

var (
	tagPattern    = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)
	strictPattern = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
		`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
		`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)
)

// Version represents a semantic version.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
	Prefix     string // "v" or empty
}

// Parse parses a version string into a Version struct.
func Parse(v string) (*Version, error) {
	ver := &Version{}

	if strings.HasPrefix(v, "v") {
		ver.Prefix = "v"
		v = strings.TrimPrefix(v, "v")
	}

	// Split on '+' for build metadata
	if idx := strings.Index(v, "+"); idx >= 0 {
		ver.Build = v[idx+1:]
		v = v[:idx]
	}

	// Split on '-' for prerelease
	if idx := strings.Index(v, "-"); idx >= 0 {
		ver.Prerelease = v[idx+1:]
		v = v[:idx]
	}

	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return nil, errors.Newf("invalid version format: %s", v)
	}

	var err error

	ver.Major, err = strconv.Atoi(parts[0])
	if err != nil {
		return nil, errors.Newf("invalid major version: %s", parts[0])
	}

	ver.Minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return nil, errors.Newf("invalid minor version: %s", parts[1])
	}

	ver.Patch, err = strconv.Atoi(parts[2])
	if err != nil {
		return nil, errors.Newf("invalid patch version: %s", parts[2])
	}

	return ver, nil
}

// String returns the version as a string.
func (v *Version) String() string {
	s := fmt.Sprintf("%s%d.%d.%d", v.Prefix, v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// IsPrerelease reports whether the version carries a prerelease suffix.
func (v *Version) IsPrerelease() bool {
	return v.Prerelease != ""
}

// BumpMajor increments the major version and resets minor and patch.
// A prerelease of an x.0.0 version bumps to its release.
func (v *Version) BumpMajor() *Version {
	if v.IsPrerelease() && v.Minor == 0 && v.Patch == 0 {
		return &Version{Major: v.Major, Prefix: v.Prefix}
	}
	return &Version{
		Major:  v.Major + 1,
		Minor:  0,
		Patch:  0,
		Prefix: v.Prefix,
	}
}

// BumpMinor increments the minor version and resets patch.
// A prerelease of an x.y.0 version bumps to its release.
func (v *Version) BumpMinor() *Version {
	if v.IsPrerelease() && v.Patch == 0 {
		return &Version{Major: v.Major, Minor: v.Minor, Prefix: v.Prefix}
	}
	return &Version{
		Major:  v.Major,
		Minor:  v.Minor + 1,
		Patch:  0,
		Prefix: v.Prefix,
	}
}

// BumpPatch increments the patch version. A prerelease bumps to its release.
func (v *Version) BumpPatch() *Version {
	if v.IsPrerelease() {
		return &Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch, Prefix: v.Prefix}
	}
	return &Version{
		Major:  v.Major,
		Minor:  v.Minor,
		Patch:  v.Patch + 1,
		Prefix: v.Prefix,
	}
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v *Version) Compare(other *Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}

	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}

	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}

	// Prerelease versions have lower precedence
	if v.Prerelease != "" && other.Prerelease == "" {
		return -1
	}
	if v.Prerelease == "" && other.Prerelease != "" {
		return 1
	}

	return strings.Compare(v.Prerelease, other.Prerelease)
}

// IsSemver checks if a string looks like a semver tag.
func IsSemver(s string) bool {
	return tagPattern.MatchString(s)
}

// Valid reports whether s is a valid semantic version. Leading zeros are
// rejected and a "v" prefix is tolerated.
func Valid(s string) bool {
	return strictPattern.MatchString(s)
}

// FindLatestVersion finds the highest semver version from a list of tags.
// The tag is returned exactly as given.
func FindLatestVersion(tags []string) string {
	type tagged struct {
		name    string
		version *Version
	}
	var versions []tagged

	for _, tag := range tags {
		if !IsSemver(tag) {
			continue
		}
		v, err := Parse(tag)
		if err != nil {
			continue
		}
		versions = append(versions, tagged{name: tag, version: v})
	}

	if len(versions) == 0 {
		return ""
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].version.Compare(versions[j].version) > 0
	})

	return versions[0].name
}

// NextPatchVersion returns the next patch version from the current version
// string. The result carries no "v" prefix.
func NextPatchVersion(current string) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	return v.BumpPatch().bare(), nil
}

// NextMinorVersion returns the next minor version from the current version
// string. The result carries no "v" prefix.
func NextMinorVersion(current string) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	return v.BumpMinor().bare(), nil
}

// NextMajorVersion returns the next major version from the current version
// string. The result carries no "v" prefix.
func NextMajorVersion(current string) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	return v.BumpMajor().bare(), nil
}

func (v *Version) bare() string {
	c := *v
	c.Prefix = ""
	return c.String()
}

// Increments computes the major, minor and patch candidates for current.
// A current version that does not parse leaves the candidates empty.
func Increments(current string) model.VersionTriple {
	triple := model.VersionTriple{Current: current}
	triple.Major, _ = NextMajorVersion(current)
	triple.Minor, _ = NextMinorVersion(current)
	triple.Patch, _ = NextPatchVersion(current)
	return triple
}

// ResolveVersion turns a requested token into the concrete version to
// publish. Bump keywords map to the triple's candidates; a valid semantic
// version is returned verbatim, whether or not it is greater than current
// and even when current does not parse.
func ResolveVersion(triple model.VersionTriple, token string) (string, error) {
	if v, ok := triple.Candidate(token); ok {
		if v == "" {
			return "", errors.Wrapf(ErrInvalidVersion,
				"cannot apply %s to current version %q", token, triple.Current)
		}
		return v, nil
	}
	if Valid(token) {
		return token, nil
	}
	return "", errors.Wrapf(ErrInvalidVersion,
		"version(%s) is not in major/minor/patch and semver format", token)
}

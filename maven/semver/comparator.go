// Package semver implements the version-constraint grammar from spec.md
// §4.B: exact versions, latest.release/latest.patch, X-wildcards, interval
// notation, and tilde/caret ranges. Ordering of concrete version strings is
// delegated to github.com/Masterminds/semver/v3; this package only decides
// validity and candidate filtering, plus the extra pre-release/build
// tie-break rules spec.md §4.B calls out.
package semver

import (
	"fmt"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"golang.org/x/xerrors"
)

// VersionComparator is a total order over version strings satisfying a
// declared constraint.
type VersionComparator interface {
	// IsValid reports whether candidate satisfies the constraint.
	IsValid(candidate string) bool
	// Compare orders two valid candidates: -1, 0, or 1.
	Compare(a, b string) int
}

// MalformedVersion is returned by parseVersion when a candidate can't be
// parsed as semver at all; callers treat it as "not valid" rather than a
// hard error, since arbitrary Maven version strings aren't required to be
// semver-shaped until they're compared.
type MalformedVersion struct {
	Raw string
}

func (e *MalformedVersion) Error() string {
	return fmt.Sprintf("malformed version: %s", e.Raw)
}

func parseVersion(v string) (*mmsemver.Version, error) {
	parsed, err := mmsemver.NewVersion(v)
	if err != nil {
		return nil, &MalformedVersion{Raw: v}
	}
	return parsed, nil
}

// compareVersions applies semver precedence with the tie-break spec.md
// §4.B specifies: pre-release < release (handled by Masterminds already),
// and when the release components are equal, compare build metadata
// lexicographically only if both sides carry it.
func compareVersions(a, b *mmsemver.Version) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	am, bm := a.Metadata(), b.Metadata()
	if am == "" || bm == "" {
		return 0
	}
	return strings.Compare(am, bm)
}

// Validate parses the constraint syntax from spec.md §4.B and, if
// metadataPattern is non-empty, wraps the result with a MetadataPattern
// filter. It is the Go analog of the source's Semver.validate(toVersion,
// metadataPattern), called at recipe construction time; a returned error
// is InvalidVersionSelector and must prevent the recipe from running.
func Validate(constraint, metadataPattern string) (VersionComparator, error) {
	cmp, err := Parse(constraint)
	if err != nil {
		return nil, err
	}
	if metadataPattern != "" {
		pattern, err := NewMetadataPattern(metadataPattern)
		if err != nil {
			return nil, err
		}
		return &filtered{inner: cmp, pattern: pattern}, nil
	}
	return cmp, nil
}

// Parse recognizes the exact grammar table of spec.md §4.B.
func Parse(constraint string) (VersionComparator, error) {
	switch {
	case constraint == "latest.release":
		return LatestRelease{}, nil
	case constraint == "latest.patch":
		return LatestPatch{}, nil
	case strings.HasPrefix(constraint, "~"):
		return newTilde(constraint[1:])
	case strings.HasPrefix(constraint, "^"):
		return newCaret(constraint[1:])
	case isInterval(constraint):
		return parseInterval(constraint)
	case isWildcard(constraint):
		return parseWildcard(constraint)
	default:
		if _, err := parseVersion(constraint); err != nil {
			return nil, xerrors.Errorf("%s: %w", constraint, err)
		}
		return ExactVersion{Version: constraint}, nil
	}
}

// ExactVersion matches exactly one version string.
type ExactVersion struct {
	Version string
}

func (e ExactVersion) IsValid(candidate string) bool { return candidate == e.Version }
func (e ExactVersion) Compare(a, b string) int {
	va, erra := parseVersion(a)
	vb, errb := parseVersion(b)
	if erra != nil || errb != nil {
		return strings.Compare(a, b)
	}
	return compareVersions(va, vb)
}

// LatestRelease matches any non-snapshot version and orders by semver
// precedence, pre-release always losing to a release.
type LatestRelease struct{}

func (LatestRelease) IsValid(candidate string) bool {
	v, err := parseVersion(candidate)
	if err != nil {
		return false
	}
	return !isSnapshot(candidate) && v.Prerelease() == ""
}

func (LatestRelease) Compare(a, b string) int {
	va, erra := parseVersion(a)
	vb, errb := parseVersion(b)
	if erra != nil || errb != nil {
		return strings.Compare(a, b)
	}
	return compareVersions(va, vb)
}

// LatestPatch matches the greatest patch release for a reference
// major.minor. Validate/Parse run at recipe-construction time and never
// see the version being upgraded, so a freshly parsed LatestPatch is
// unbound (major.minor not yet known) and matches any non-snapshot
// release, same as LatestRelease; callers that do have the version in
// scope (select.NewerThan, UpgradeParentVersion.Visitor) call
// BindReference once it's known, which narrows IsValid to that
// major.minor. Grounded on spec.md §4.B's "Greatest patch for given
// major.minor" grammar entry.
type LatestPatch struct {
	major, minor uint64
	bound        bool
}

func (p LatestPatch) IsValid(candidate string) bool {
	v, err := parseVersion(candidate)
	if err != nil {
		return false
	}
	if v.Prerelease() != "" || isSnapshot(candidate) {
		return false
	}
	if !p.bound {
		return true
	}
	return v.Major() == p.major && v.Minor() == p.minor
}

func (p LatestPatch) Compare(a, b string) int {
	va, erra := parseVersion(a)
	vb, errb := parseVersion(b)
	if erra != nil || errb != nil {
		return strings.Compare(a, b)
	}
	return compareVersions(va, vb)
}

// BindReference binds a LatestPatch comparator to reference's
// major.minor, narrowing it from "any release" to "greatest patch in
// this release line". Every other comparator, including a LatestPatch
// wrapped by a MetadataPattern filter, is returned with the binding
// applied underneath (or unchanged if it isn't a LatestPatch at all).
func BindReference(comparator VersionComparator, reference string) VersionComparator {
	switch c := comparator.(type) {
	case LatestPatch:
		v, err := parseVersion(reference)
		if err != nil {
			return c
		}
		return LatestPatch{major: v.Major(), minor: v.Minor(), bound: true}
	case *filtered:
		return &filtered{inner: BindReference(c.inner, reference), pattern: c.pattern}
	default:
		return comparator
	}
}

func isSnapshot(v string) bool {
	return strings.HasSuffix(strings.ToUpper(v), "-SNAPSHOT")
}

// filtered wraps a VersionComparator with an additional MetadataPattern
// filter applied before ordering, per spec.md §4.B's "separate comparator"
// framing.
type filtered struct {
	inner   VersionComparator
	pattern *MetadataPattern
}

func (f *filtered) IsValid(candidate string) bool {
	return f.inner.IsValid(candidate) && f.pattern.Matches(candidate)
}

func (f *filtered) Compare(a, b string) int { return f.inner.Compare(a, b) }

package semver

import (
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"golang.org/x/xerrors"
)

// rangeComparator wraps a Masterminds constraint expression for the
// tilde (patch-level) and caret (compatible-with) operators; Masterminds
// already implements both operators with the semantics spec.md §4.B
// describes, so there's no reason to hand-roll them the way the interval
// and wildcard grammars had to be.
type rangeComparator struct {
	expr string
	c    *mmsemver.Constraints
}

func newTilde(v string) (VersionComparator, error) {
	return newRange("~" + v)
}

func newCaret(v string) (VersionComparator, error) {
	return newRange("^" + v)
}

func newRange(expr string) (VersionComparator, error) {
	c, err := mmsemver.NewConstraint(expr)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", expr, err)
	}
	return &rangeComparator{expr: expr, c: c}, nil
}

func (r *rangeComparator) IsValid(candidate string) bool {
	v, err := parseVersion(candidate)
	if err != nil {
		return false
	}
	return r.c.Check(v)
}

func (r *rangeComparator) Compare(a, b string) int {
	va, erra := parseVersion(a)
	vb, errb := parseVersion(b)
	if erra != nil || errb != nil {
		return strings.Compare(a, b)
	}
	return compareVersions(va, vb)
}

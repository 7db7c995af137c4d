package semver

import (
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// wildcard implements the "1.X" / "1.2.X" trailing-wildcard syntax: every
// fixed leading component must match exactly, everything after the
// wildcard marker is free.
type wildcard struct {
	fixed []uint64
}

func isWildcard(s string) bool {
	for _, p := range strings.Split(s, ".") {
		if strings.EqualFold(p, "x") || p == "*" {
			return true
		}
	}
	return false
}

func parseWildcard(s string) (VersionComparator, error) {
	var fixed []uint64
	for _, p := range strings.Split(s, ".") {
		if strings.EqualFold(p, "x") || p == "*" {
			break
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, xerrors.Errorf("%s: invalid wildcard segment %q: %w", s, p, err)
		}
		fixed = append(fixed, n)
	}
	if len(fixed) == 0 {
		return nil, xerrors.Errorf("%s: wildcard constraint needs at least one fixed component", s)
	}
	return &wildcard{fixed: fixed}, nil
}

func (w *wildcard) IsValid(candidate string) bool {
	v, err := parseVersion(candidate)
	if err != nil || v.Prerelease() != "" {
		return false
	}
	got := []uint64{v.Major(), v.Minor(), v.Patch()}
	for i, want := range w.fixed {
		if i >= len(got) || got[i] != want {
			return false
		}
	}
	return true
}

func (w *wildcard) Compare(a, b string) int {
	va, erra := parseVersion(a)
	vb, errb := parseVersion(b)
	if erra != nil || errb != nil {
		return strings.Compare(a, b)
	}
	return compareVersions(va, vb)
}

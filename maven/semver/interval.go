package semver

import (
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"golang.org/x/xerrors"
)

// interval implements Maven-style range notation: "[a,b]", "(a,b)",
// "[a,)", "(,b]", and so on. An empty bound means unbounded on that side.
type interval struct {
	lower          *mmsemver.Version
	upper          *mmsemver.Version
	lowerInclusive bool
	upperInclusive bool
}

func isInterval(s string) bool {
	return len(s) > 2 && (s[0] == '[' || s[0] == '(')
}

func parseInterval(s string) (VersionComparator, error) {
	open := s[0]
	close := s[len(s)-1]
	if open != '[' && open != '(' {
		return nil, xerrors.Errorf("%s: interval must open with [ or (", s)
	}
	if close != ']' && close != ')' {
		return nil, xerrors.Errorf("%s: interval must close with ] or )", s)
	}
	body := s[1 : len(s)-1]
	parts := strings.SplitN(body, ",", 2)
	if len(parts) != 2 {
		return nil, xerrors.Errorf("%s: interval requires a comma-separated lower,upper pair", s)
	}
	lowerStr, upperStr := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	iv := &interval{lowerInclusive: open == '[', upperInclusive: close == ']'}
	if lowerStr != "" {
		v, err := parseVersion(lowerStr)
		if err != nil {
			return nil, xerrors.Errorf("%s: %w", s, err)
		}
		iv.lower = v
	}
	if upperStr != "" {
		v, err := parseVersion(upperStr)
		if err != nil {
			return nil, xerrors.Errorf("%s: %w", s, err)
		}
		iv.upper = v
	}
	if iv.lower == nil && iv.upper == nil {
		return nil, xerrors.Errorf("%s: interval must bound at least one side", s)
	}
	return iv, nil
}

func (iv *interval) IsValid(candidate string) bool {
	v, err := parseVersion(candidate)
	if err != nil {
		return false
	}
	if iv.lower != nil {
		c := v.Compare(iv.lower)
		if iv.lowerInclusive && c < 0 {
			return false
		}
		if !iv.lowerInclusive && c <= 0 {
			return false
		}
	}
	if iv.upper != nil {
		c := v.Compare(iv.upper)
		if iv.upperInclusive && c > 0 {
			return false
		}
		if !iv.upperInclusive && c >= 0 {
			return false
		}
	}
	return true
}

func (iv *interval) Compare(a, b string) int {
	va, erra := parseVersion(a)
	vb, errb := parseVersion(b)
	if erra != nil || errb != nil {
		return strings.Compare(a, b)
	}
	return compareVersions(va, vb)
}

package semver

import (
	"regexp"
	"strings"

	"golang.org/x/xerrors"
)

// MetadataPattern is a regex filter applied to the build metadata of
// candidate versions before ordering, kept distinct from
// VersionComparator per spec.md §3/§4.B.
type MetadataPattern struct {
	re *regexp.Regexp
}

// NewMetadataPattern compiles pattern. A malformed regex is surfaced as an
// InvalidVersionSelector error by the caller.
func NewMetadataPattern(pattern string) (*MetadataPattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", pattern, err)
	}
	return &MetadataPattern{re: re}, nil
}

// Matches reports whether candidate's build metadata (the text after
// "+", or "" when there is none) passes the pattern.
func (p *MetadataPattern) Matches(candidate string) bool {
	metadata := ""
	if i := strings.IndexByte(candidate, '+'); i >= 0 {
		metadata = candidate[i+1:]
	}
	return p.re.MatchString(metadata)
}

// Package maven implements the resolution-and-cache core: coordinates,
// scopes, repositories, the dependency tree, and the downloader/resolver
// that build it.
package maven

import (
	"strings"

	"golang.org/x/xerrors"
)

// GroupArtifact is the (groupId, artifactId) identity key used throughout
// the resolver. Equality is structural.
type GroupArtifact struct {
	GroupID    string
	ArtifactID string
}

func (ga GroupArtifact) String() string {
	return ga.GroupID + ":" + ga.ArtifactID
}

// Coordinate is a GroupArtifact plus a version, which may be a literal, a
// ${property} placeholder, or a range expression.
type Coordinate struct {
	GroupArtifact
	Version string
}

func (c Coordinate) String() string {
	return c.GroupArtifact.String() + ":" + c.Version
}

// IsPlaceholder reports whether Version is an unresolved ${...} reference.
func (c Coordinate) IsPlaceholder() bool {
	return isPlaceholder(c.Version)
}

func isPlaceholder(version string) bool {
	return strings.HasPrefix(version, "${") && strings.HasSuffix(version, "}")
}

// ParseCoordinate parses a "groupId:artifactId:version" string.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Coordinate{}, xerrors.Errorf("%s: %w", s, ErrMalformedCoordinate)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, xerrors.Errorf("%s: %w", s, ErrMalformedCoordinate)
		}
	}
	return Coordinate{
		GroupArtifact: GroupArtifact{GroupID: parts[0], ArtifactID: parts[1]},
		Version:       parts[2],
	}, nil
}

// Exclusion is a GroupArtifact pattern where "*" matches any groupId or
// artifactId.
type Exclusion struct {
	GroupArtifact
}

// Matches reports whether the exclusion pattern covers ga.
func (e Exclusion) Matches(ga GroupArtifact) bool {
	return (e.GroupID == "*" || e.GroupID == ga.GroupID) &&
		(e.ArtifactID == "*" || e.ArtifactID == ga.ArtifactID)
}

// ParseExclusion parses a "groupId:artifactId" exclusion pattern.
func ParseExclusion(s string) (Exclusion, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return Exclusion{}, xerrors.Errorf("%s: %w", s, ErrMalformedCoordinate)
	}
	return Exclusion{GroupArtifact{GroupID: parts[0], ArtifactID: parts[1]}}, nil
}

// AnyExclusionMatches reports whether any exclusion in the set matches ga.
func AnyExclusionMatches(exclusions []Exclusion, ga GroupArtifact) bool {
	for _, e := range exclusions {
		if e.Matches(ga) {
			return true
		}
	}
	return false
}

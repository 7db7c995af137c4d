package maven

import "strings"

// Repository is a normalized Maven repository descriptor. Two repositories
// are equal iff normalized URI, id, and policy flags match.
type Repository struct {
	ID        string
	URI       string
	Releases  bool
	Snapshots bool
}

// NormalizeRepository upgrades http:// to https:// and ensures the URI ends
// in exactly one trailing slash, leaving ID and policy flags untouched.
// Normalization is idempotent: NormalizeRepository(NormalizeRepository(r))
// == NormalizeRepository(r).
func NormalizeRepository(r Repository) Repository {
	uri := r.URI
	if strings.HasPrefix(uri, "http://") {
		uri = "https://" + strings.TrimPrefix(uri, "http://")
	}
	uri = strings.TrimRight(uri, "/") + "/"
	r.URI = uri
	return r
}

// CacheKey is the string identity used to key caches on a Repository. It is
// the normalized URI, since that's the component the cache contracts in
// spec.md §3 define identity by.
func (r Repository) CacheKey() string {
	return NormalizeRepository(r).URI
}

// GroupArtifactRepository combines a Repository (by URI) with a
// GroupArtifact; it is the cache key for metadata lookups.
type GroupArtifactRepository struct {
	Repository Repository
	GA         GroupArtifact
}

// CacheKey is the string identity used to key caches on a
// GroupArtifactRepository.
func (gar GroupArtifactRepository) CacheKey() string {
	return gar.Repository.CacheKey() + "|" + gar.GA.String()
}

// MavenCentral is the default remote repository, mirroring the teacher's
// centralURL constant in pkg/crawler/pom/parse.go.
var MavenCentral = Repository{
	ID:        "central",
	URI:       "https://repo.maven.apache.org/maven2/",
	Releases:  true,
	Snapshots: false,
}

package maven

import (
	"context"
	"fmt"
	"strings"

	"github.com/openrewrite-go/rewrite-maven/maven/cache"
	"github.com/openrewrite-go/rewrite-maven/internal/log"
)

// Downloader implements spec.md §4.G: given a coordinate and an ordered
// list of candidate repositories, it normalizes each repository, consults
// the cache, and falls back to the transport on a miss. Grounded on
// pkg/crawler/pom/parse.go's tryRepository/fetchPOMFromRemoteRepository,
// generalized from "try a fixed URL list" to the cache-mediated algorithm
// the spec describes.
type Downloader struct {
	Cache     PomCache
	Transport Transport
}

// NewDownloader wires a PomCache and Transport into a Downloader.
func NewDownloader(c PomCache, t Transport) *Downloader {
	return &Downloader{Cache: c, Transport: t}
}

// DownloadPom implements the §4.G algorithm: repositories are tried in
// order, each first normalized and cached via ComputeRepository, then
// consulted via ComputePom; the first non-Unavailable result wins and
// remaining repositories are not queried. If every repository reports
// Unavailable, the coordinate is PomNotFound.
func (d *Downloader) DownloadPom(ctx context.Context, coord Coordinate, repos []Repository) (RawPom, Repository, error) {
	if coord.IsPlaceholder() {
		return RawPom{}, Repository{}, newError(KindUnresolvedVersion, coord.String(), nil)
	}
	for _, repo := range repos {
		normalized, err := d.normalize(ctx, repo)
		if err != nil {
			return RawPom{}, Repository{}, err
		}

		res, err := d.Cache.ComputePom(ctx, normalized, coord, func(ctx context.Context) (RawPom, bool, error) {
			return d.fetchPom(ctx, normalized, coord)
		})
		if err != nil {
			return RawPom{}, Repository{}, err
		}
		if res.State != cache.Unavailable {
			return res.Value, normalized, nil
		}
		log.Logger.Debugf("%s: unavailable in %s", coord, normalized.ID)
	}
	return RawPom{}, Repository{}, newError(KindPomNotFound, coord.String(), nil)
}

// DownloadMetadata follows the same per-repository pattern as DownloadPom
// but targets maven-metadata.xml and merges results across every
// repository that has one, per spec.md §4.G.
func (d *Downloader) DownloadMetadata(ctx context.Context, ga GroupArtifact, repos []Repository) (MavenMetadata, error) {
	var found []MavenMetadata
	for _, repo := range repos {
		normalized, err := d.normalize(ctx, repo)
		if err != nil {
			return MavenMetadata{}, err
		}

		res, err := d.Cache.ComputeMavenMetadata(ctx, normalized, ga, func(ctx context.Context) (MavenMetadata, bool, error) {
			return d.fetchMetadata(ctx, normalized, ga)
		})
		if err != nil {
			return MavenMetadata{}, err
		}
		if res.State != cache.Unavailable {
			found = append(found, res.Value)
		}
	}
	if len(found) == 0 {
		return MavenMetadata{}, newError(KindPomNotFound, ga.String(), nil)
	}
	return MergeMetadata(found...), nil
}

func (d *Downloader) normalize(ctx context.Context, repo Repository) (Repository, error) {
	res, err := d.Cache.ComputeRepository(ctx, repo, func(ctx context.Context) (Repository, bool, error) {
		return NormalizeRepository(repo), true, nil
	})
	if err != nil {
		return Repository{}, err
	}
	return res.Value, nil
}

func (d *Downloader) fetchPom(ctx context.Context, repo Repository, coord Coordinate) (RawPom, bool, error) {
	url := pomURL(repo, coord)
	body, found, err := d.Transport.Get(ctx, url)
	if err != nil {
		return RawPom{}, false, err
	}
	if !found {
		return RawPom{}, false, nil
	}
	defer body.Close()

	parsed, err := parsePomXML(body)
	if err != nil {
		return RawPom{}, false, fmt.Errorf("parse %s: %w", url, err)
	}
	return parsed.toRawPom(), true, nil
}

func (d *Downloader) fetchMetadata(ctx context.Context, repo Repository, ga GroupArtifact) (MavenMetadata, bool, error) {
	url := metadataURL(repo, ga)
	body, found, err := d.Transport.Get(ctx, url)
	if err != nil {
		return MavenMetadata{}, false, err
	}
	if !found {
		return MavenMetadata{}, false, nil
	}
	defer body.Close()

	parsed, err := parseMetadataXML(body)
	if err != nil {
		return MavenMetadata{}, false, fmt.Errorf("parse %s: %w", url, err)
	}
	return parsed.toMavenMetadata(), true, nil
}

// pomURL renders repo/groupPath/artifact/version/artifact-version.pom,
// grounded on pkg/crawler/pom/parse.go:tryRepository's path construction.
func pomURL(repo Repository, coord Coordinate) string {
	groupPath := strings.ReplaceAll(coord.GroupID, ".", "/")
	return fmt.Sprintf("%s%s/%s/%s/%s-%s.pom", repo.URI, groupPath, coord.ArtifactID, coord.Version, coord.ArtifactID, coord.Version)
}

func metadataURL(repo Repository, ga GroupArtifact) string {
	groupPath := strings.ReplaceAll(ga.GroupID, ".", "/")
	return fmt.Sprintf("%s%s/%s/maven-metadata.xml", repo.URI, groupPath, ga.ArtifactID)
}

package maven

import (
	"context"

	"github.com/openrewrite-go/rewrite-maven/maven/cache"
)

// PomCache is the three-method cache abstraction of spec.md §4.D, binding
// cache.Store[T] three times over the domain types this resolver cares
// about.
type PomCache interface {
	ComputeMavenMetadata(ctx context.Context, repo Repository, ga GroupArtifact, orElseGet cache.Producer[MavenMetadata]) (cache.Result[MavenMetadata], error)
	ComputePom(ctx context.Context, repo Repository, coord Coordinate, orElseGet cache.Producer[RawPom]) (cache.Result[RawPom], error)
	ComputeRepository(ctx context.Context, repo Repository, orElseGet cache.Producer[Repository]) (cache.Result[Repository], error)
	Close() error
}

type pomCache struct {
	pom        cache.Store[RawPom]
	metadata   cache.Store[MavenMetadata]
	repository cache.Store[Repository]
	closers    []func() error
}

// NewInMemoryPomCache returns a PomCache backed purely by
// cache.NewMemoryStore, with the unresolvable-coordinate short-circuit
// applied to computePom only, matching where spec.md §4.D.4 anchors it
// (a list of unresolvable g:a:v coordinates).
func NewInMemoryPomCache(unresolvable map[string]struct{}) PomCache {
	pom := cache.UnresolvableFilter(cache.NewMemoryStore[RawPom](), unresolvable)
	return &pomCache{
		pom:        pom,
		metadata:   cache.NewMemoryStore[MavenMetadata](),
		repository: cache.NewMemoryStore[Repository](),
	}
}

// NewBoundedPomCache returns an in-memory PomCache whose three stores are
// each bounded to maxCacheStoreSize entries; maxCacheStoreSize == 0 means
// unbounded (SPEC_FULL.md §4.E). cmd/rewrite-maven layers it over the
// persistent cache. NewPersistentPomCache does not fall back to it: with
// an empty workspace, NewPersistentPomCache returns an error.
func NewBoundedPomCache(maxCacheStoreSize int, unresolvable map[string]struct{}) PomCache {
	pom := cache.UnresolvableFilter(cache.NewBoundedStore[RawPom](maxCacheStoreSize), unresolvable)
	return &pomCache{
		pom:        pom,
		metadata:   cache.NewBoundedStore[MavenMetadata](maxCacheStoreSize),
		repository: cache.NewBoundedStore[Repository](maxCacheStoreSize),
	}
}

// NewPersistentPomCache opens a PersistentFile under workspace and returns
// a PomCache backed by its three tables.
func NewPersistentPomCache(ctx context.Context, workspace string, unresolvable map[string]struct{}) (PomCache, error) {
	f, err := cache.OpenPersistentFile(ctx, workspace)
	if err != nil {
		return nil, newError(KindCacheLocked, workspace, err)
	}
	pom := cache.UnresolvableFilter(cache.NewSQLStore[RawPom](f, "pom"), unresolvable)
	return &pomCache{
		pom:        pom,
		metadata:   cache.NewSQLStore[MavenMetadata](f, "metadata"),
		repository: cache.NewSQLStore[Repository](f, "repository"),
		closers:    []func() error{f.Close},
	}, nil
}

// ComposePomCache implements spec.md §4.D.5's a.orElse(b) at the
// three-method PomCache level: an in-memory cache layered over a
// persistent one, as exercised by the cache-layering end-to-end scenario.
func ComposePomCache(a, b PomCache) PomCache {
	ac, bc := a.(*pomCache), b.(*pomCache)
	return &pomCache{
		pom:        cache.OrElse(ac.pom, bc.pom),
		metadata:   cache.OrElse(ac.metadata, bc.metadata),
		repository: cache.OrElse(ac.repository, bc.repository),
		closers:    append(append([]func() error{}, ac.closers...), bc.closers...),
	}
}

func (c *pomCache) ComputeMavenMetadata(ctx context.Context, repo Repository, ga GroupArtifact, orElseGet cache.Producer[MavenMetadata]) (cache.Result[MavenMetadata], error) {
	key := GroupArtifactRepository{Repository: repo, GA: ga}.CacheKey()
	return c.metadata.Compute(ctx, key, orElseGet)
}

func (c *pomCache) ComputePom(ctx context.Context, repo Repository, coord Coordinate, orElseGet cache.Producer[RawPom]) (cache.Result[RawPom], error) {
	key := repo.CacheKey() + "|" + coord.String()
	return c.pom.Compute(ctx, key, orElseGet)
}

func (c *pomCache) ComputeRepository(ctx context.Context, repo Repository, orElseGet cache.Producer[Repository]) (cache.Result[Repository], error) {
	return c.repository.Compute(ctx, repo.CacheKey(), orElseGet)
}

func (c *pomCache) Close() error {
	var err error
	for _, closer := range c.closers {
		if cerr := closer(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// NoopPomCache is the zero-sized pass-through cache, the Go analog of the
// source's MavenPomCache.NOOP static singleton: every call invokes the
// producer unconditionally and reports Updated (or Unavailable when the
// producer finds nothing), per the Design Notes'
// "expose as zero-sized value constructors" guidance.
func NoopPomCache() PomCache { return noopPomCache{} }

type noopPomCache struct{}

func (noopPomCache) ComputeMavenMetadata(ctx context.Context, _ Repository, _ GroupArtifact, orElseGet cache.Producer[MavenMetadata]) (cache.Result[MavenMetadata], error) {
	return runNoop(ctx, orElseGet)
}

func (noopPomCache) ComputePom(ctx context.Context, _ Repository, _ Coordinate, orElseGet cache.Producer[RawPom]) (cache.Result[RawPom], error) {
	return runNoop(ctx, orElseGet)
}

func (noopPomCache) ComputeRepository(ctx context.Context, _ Repository, orElseGet cache.Producer[Repository]) (cache.Result[Repository], error) {
	return runNoop(ctx, orElseGet)
}

func (noopPomCache) Close() error { return nil }

func runNoop[T any](ctx context.Context, orElseGet cache.Producer[T]) (cache.Result[T], error) {
	value, found, err := orElseGet(ctx)
	if err != nil {
		return cache.Result[T]{}, err
	}
	if !found {
		var zero T
		return cache.Result[T]{State: cache.Unavailable, Value: zero}, nil
	}
	return cache.Result[T]{State: cache.Updated, Value: value}, nil
}

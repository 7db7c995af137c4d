package maven

import (
	"context"
	"testing"

	"github.com/openrewrite-go/rewrite-maven/maven/cache"
)

func TestComposePomCacheFallsThroughToPersistentLayer(t *testing.T) {
	memory := NewInMemoryPomCache(map[string]struct{}{})
	persistent := NewInMemoryPomCache(map[string]struct{}{})
	composed := ComposePomCache(memory, persistent)

	coord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "g", ArtifactID: "a"}, Version: "1.0.0"}
	repo := MavenCentral

	calls := 0
	producer := func(ctx context.Context) (RawPom, bool, error) {
		calls++
		return RawPom{GroupArtifact: coord.GroupArtifact, Version: coord.Version}, true, nil
	}

	res, err := composed.ComputePom(context.Background(), repo, coord, producer)
	if err != nil {
		t.Fatal(err)
	}
	if res.State != cache.Updated {
		t.Fatalf("state = %s, want Updated", res.State)
	}

	res2, err := composed.ComputePom(context.Background(), repo, coord, producer)
	if err != nil {
		t.Fatal(err)
	}
	if res2.State != cache.Cached {
		t.Fatalf("state = %s, want Cached", res2.State)
	}
	if calls != 1 {
		t.Fatalf("producer invoked %d times, want 1", calls)
	}
}

func TestNoopPomCacheNeverCaches(t *testing.T) {
	c := NoopPomCache()
	coord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "g", ArtifactID: "a"}, Version: "1.0.0"}

	calls := 0
	producer := func(ctx context.Context) (RawPom, bool, error) {
		calls++
		return RawPom{}, true, nil
	}

	for i := 0; i < 3; i++ {
		if _, err := c.ComputePom(context.Background(), MavenCentral, coord, producer); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 3 {
		t.Errorf("producer invoked %d times, want 3 (noop never caches)", calls)
	}
}

func TestInMemoryPomCacheUnresolvableShortCircuit(t *testing.T) {
	coord := Coordinate{GroupArtifact: GroupArtifact{GroupID: "g", ArtifactID: "a"}, Version: "1.0.0"}
	key := MavenCentral.CacheKey() + "|" + coord.String()
	c := NewInMemoryPomCache(map[string]struct{}{key: {}})

	calls := 0
	res, err := c.ComputePom(context.Background(), MavenCentral, coord, func(ctx context.Context) (RawPom, bool, error) {
		calls++
		return RawPom{}, true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.State != cache.Unavailable {
		t.Fatalf("state = %s, want Unavailable", res.State)
	}
	if calls != 0 {
		t.Errorf("producer invoked %d times, want 0", calls)
	}
}

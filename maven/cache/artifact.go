package cache

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// ArtifactStore is the second-level cache of spec.md §4.F: it maps a
// string key (a resolved dependency's coordinate plus classifier/type) to
// the on-disk path of its fetched artifact bytes. It is kept separate
// from Store[T] because values are streamed bytes on disk rather than an
// in-memory value, and supports the same OrElse-style layering as the POM
// cache. Grounded on
// _examples/original_source/rewrite-maven/.../cache/MavenArtifactCache.java
// and the teacher's atomic-write idiom in
// pkg/crawler/crawler.go:generateLicenseFile.
type ArtifactStore interface {
	Get(ctx context.Context, key string) (path string, found bool, err error)
	// Put consumes r fully and writes it atomically under the store's
	// directory via a temp-file + rename. A nil reader, or a stream that
	// reads zero bytes, returns ("", nil) per spec.md §4.F's "null
	// return on empty stream".
	Put(ctx context.Context, key string, r io.Reader) (path string, err error)
	// Compute combines Get and Put: on miss, fetch is invoked and its
	// result (if non-nil) is stored.
	Compute(ctx context.Context, key string, fetch func(ctx context.Context) (io.ReadCloser, error)) (path string, err error)
}

type dirArtifactStore struct {
	dir string
}

// NewDirArtifactStore returns an ArtifactStore rooted at dir, creating it
// if necessary.
func NewDirArtifactStore(dir string) (ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, xerrors.Errorf("artifact cache dir %s: %w", dir, err)
	}
	return &dirArtifactStore{dir: dir}, nil
}

func (d *dirArtifactStore) pathFor(key string) string {
	return filepath.Join(d.dir, keyToFilename(key))
}

func (d *dirArtifactStore) Get(_ context.Context, key string) (string, bool, error) {
	p := d.pathFor(key)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, xerrors.Errorf("stat %s: %w", p, err)
	}
	return p, true, nil
}

func (d *dirArtifactStore) Put(_ context.Context, key string, r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	target := d.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", xerrors.Errorf("mkdir %s: %w", filepath.Dir(target), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".artifact-*.tmp")
	if err != nil {
		return "", xerrors.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", xerrors.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return "", xerrors.Errorf("close temp file: %w", err)
	}
	if n == 0 {
		return "", nil
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", xerrors.Errorf("rename into %s: %w", target, err)
	}
	return target, nil
}

func (d *dirArtifactStore) Compute(ctx context.Context, key string, fetch func(context.Context) (io.ReadCloser, error)) (string, error) {
	if p, found, err := d.Get(ctx, key); err != nil {
		return "", err
	} else if found {
		return p, nil
	}
	rc, err := fetch(ctx)
	if err != nil {
		return "", err
	}
	if rc == nil {
		return "", nil
	}
	defer rc.Close()
	return d.Put(ctx, key, rc)
}

func keyToFilename(key string) string {
	return strings.NewReplacer(":", "_", "/", "_", "*", "_").Replace(key)
}

// OrElseArtifact layers two ArtifactStores the same way OrElse layers
// Store[T]: a is checked first; on miss, b is consulted (and itself may
// fetch), and a writes through whatever b produced.
func OrElseArtifact(a, b ArtifactStore) ArtifactStore {
	return &composedArtifact{a: a, b: b}
}

type composedArtifact struct {
	a, b ArtifactStore
}

func (c *composedArtifact) Get(ctx context.Context, key string) (string, bool, error) {
	if p, ok, err := c.a.Get(ctx, key); err != nil {
		return "", false, err
	} else if ok {
		return p, true, nil
	}
	return c.b.Get(ctx, key)
}

func (c *composedArtifact) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	return c.a.Put(ctx, key, r)
}

func (c *composedArtifact) Compute(ctx context.Context, key string, fetch func(context.Context) (io.ReadCloser, error)) (string, error) {
	return c.a.Compute(ctx, key, func(ctx context.Context) (io.ReadCloser, error) {
		p, err := c.b.Compute(ctx, key, fetch)
		if err != nil || p == "" {
			return nil, err
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, xerrors.Errorf("reopen %s: %w", p, err)
		}
		return f, nil
	})
}

package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// lruStore is the bounded in-memory backend (see NewBoundedStore), per
// spec.md §4.E and the Open Question resolved in SPEC_FULL.md §4.E: a
// positive maxCacheStoreSize evicts by LRU rather than growing without
// bound. Grounded on the teacher's own
// newPOMCache/pomCache (pkg/crawler/pom/cache.go), which backs its POM
// cache with exactly this library.
type lruStore[T any] struct {
	mu    sync.Mutex
	cache *lru.Cache[string, entry[T]]
	group singleflight.Group
}

// NewLRUStore returns a Store[T] bounded to size entries. size must be > 0;
// callers needing "unbounded" should use NewMemoryStore instead (see
// NewBoundedStore).
func NewLRUStore[T any](size int) (Store[T], error) {
	c, err := lru.New[string, entry[T]](size)
	if err != nil {
		return nil, err
	}
	return &lruStore[T]{cache: c}, nil
}

// NewBoundedStore implements the documented meaning of
// maxCacheStoreSize == 0: unbounded, falling back to the plain
// concurrent-map backend rather than an LRU of size zero.
func NewBoundedStore[T any](maxSize int) Store[T] {
	if maxSize <= 0 {
		return NewMemoryStore[T]()
	}
	s, err := NewLRUStore[T](maxSize)
	if err != nil {
		// lru.New only errors on size <= 0, already excluded above.
		return NewMemoryStore[T]()
	}
	return s
}

func (s *lruStore[T]) Compute(ctx context.Context, key string, orElseGet Producer[T]) (Result[T], error) {
	if res, ok := s.lookup(key); ok {
		return res, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if res, ok := s.lookup(key); ok {
			return res, nil
		}
		value, found, err := orElseGet(ctx)
		if err != nil {
			var zero Result[T]
			return zero, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if !found {
			s.cache.Add(key, entry[T]{state: unavailablePersisted})
			var zero T
			return Result[T]{State: Unavailable, Value: zero}, nil
		}
		s.cache.Add(key, entry[T]{state: present, value: value})
		return Result[T]{State: Updated, Value: value}, nil
	})
	if err != nil {
		return Result[T]{}, err
	}
	return v.(Result[T]), nil
}

func (s *lruStore[T]) lookup(key string) (Result[T], bool) {
	s.mu.Lock()
	e, ok := s.cache.Get(key)
	s.mu.Unlock()
	if !ok {
		return Result[T]{}, false
	}
	switch e.state {
	case present:
		return Result[T]{State: Cached, Value: e.value}, true
	case unavailablePersisted:
		var zero T
		return Result[T]{State: Unavailable, Value: zero}, true
	default:
		return Result[T]{}, false
	}
}

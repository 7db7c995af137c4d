package cache

import (
	"context"

	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/sync/singleflight"
)

// memoryStore is the in-memory backend of spec.md §4.E: three such stores
// (one per lookup kind) back the in-memory PomCache. Grounded on the
// teacher's direct use of concurrent-map for uniqueLicenseKeys
// (pkg/crawler/crawler.go) — lock-striped reads/writes without a single
// global mutex.
type memoryStore[T any] struct {
	entries cmap.ConcurrentMap[string, entry[T]]
	group   singleflight.Group
}

// NewMemoryStore returns an unbounded in-memory Store[T].
func NewMemoryStore[T any]() Store[T] {
	return &memoryStore[T]{entries: cmap.New[entry[T]]()}
}

func (s *memoryStore[T]) Compute(ctx context.Context, key string, orElseGet Producer[T]) (Result[T], error) {
	if e, ok := s.entries.Get(key); ok {
		switch e.state {
		case present:
			return Result[T]{State: Cached, Value: e.value}, nil
		case unavailablePersisted:
			var zero T
			return Result[T]{State: Unavailable, Value: zero}, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Re-check: another caller may have completed the singleflight
		// group's call for this key between our map read above and this
		// call entering Do. Re-reading avoids a second producer
		// invocation.
		if e, ok := s.entries.Get(key); ok {
			switch e.state {
			case present:
				return Result[T]{State: Cached, Value: e.value}, nil
			case unavailablePersisted:
				var zero T
				return Result[T]{State: Unavailable, Value: zero}, nil
			}
		}

		value, found, err := orElseGet(ctx)
		if err != nil {
			var zero Result[T]
			return zero, err
		}
		if !found {
			s.entries.Set(key, entry[T]{state: unavailablePersisted})
			var zero T
			return Result[T]{State: Unavailable, Value: zero}, nil
		}
		s.entries.Set(key, entry[T]{state: present, value: value})
		return Result[T]{State: Updated, Value: value}, nil
	})
	if err != nil {
		return Result[T]{}, err
	}
	return v.(Result[T]), nil
}

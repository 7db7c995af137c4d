// Package cache implements the layered, tri-state lookup cache from
// spec.md §4.D/§4.E: a generic Store[T] replaces the three
// Optional-valued maps the source keeps per lookup kind (raw POMs,
// metadata, normalized repositories) with one map whose value type
// distinguishes "never looked up" from "looked up, found nothing" from
// "looked up, found a value" — the tri-state tagged variant the Design
// Notes in spec.md §9 call for in place of Optional-of-Optional.
//
// Store[T] stays generic and knows nothing about Maven coordinates or
// POMs; the maven package instantiates it three times (RawPom,
// MavenMetadata, Repository) and binds the results under the
// domain-specific three-method PomCache described in spec.md §4.D.
package cache

import "context"

// State is the outcome of one Compute call.
type State int

const (
	// Cached means a prior Compute already produced a value for this
	// key and the producer was not invoked.
	Cached State = iota
	// Updated means this call's producer ran and the value it found was
	// just stored.
	Updated
	// Unavailable is a positive statement that the upstream
	// definitively does not have this key, distinct from an error. It is
	// reported both when the producer just answered "not found" and when
	// that answer was already stored.
	Unavailable
)

func (s State) String() string {
	switch s {
	case Cached:
		return "Cached"
	case Updated:
		return "Updated"
	case Unavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// Result is the CacheResult<T> tagged variant from spec.md §3: payload is
// the zero value of T iff State is Unavailable.
type Result[T any] struct {
	State State
	Value T
}

// tristate is the value half of the tri-state map entry described above.
type tristate int

const (
	missing tristate = iota
	unavailablePersisted
	present
)

type entry[T any] struct {
	state tristate
	value T
}

// Producer is the deferred "orElseGet" every Store.Compute call takes. It
// returns (value, found, err): found=false with err=nil is a definitive
// negative answer and gets cached as Unavailable; a non-nil err is a
// negative *event* and is never cached, per spec.md §4.D.3.
type Producer[T any] func(ctx context.Context) (value T, found bool, err error)

// Store is one logical map of spec.md §4.D's cache contract: at-most-once
// production per key, negative caching, and error transparency.
type Store[T any] interface {
	Compute(ctx context.Context, key string, orElseGet Producer[T]) (Result[T], error)
}

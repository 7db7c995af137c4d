package cache

import (
	"context"
	"strings"
)

// OrElse implements spec.md §4.D.5: a.OrElse(b) checks a first, falls
// through to b on miss, and writes target whichever layer produced the
// hit — when b itself has to call the real producer, that write lands in
// b, and a caches the resulting value too, so a's own write always
// happens; when both are already unavailable the result is Unavailable
// without invoking the producer at all. When b already held the value,
// the result is reported as Cached, since no producer ran.
func OrElse[T any](a, b Store[T]) Store[T] {
	return &composed[T]{a: a, b: b}
}

type composed[T any] struct {
	a, b Store[T]
}

func (c *composed[T]) Compute(ctx context.Context, key string, orElseGet Producer[T]) (Result[T], error) {
	bState := Updated
	res, err := c.a.Compute(ctx, key, func(ctx context.Context) (T, bool, error) {
		res, err := c.b.Compute(ctx, key, orElseGet)
		if err != nil {
			var zero T
			return zero, false, err
		}
		bState = res.State
		if res.State == Unavailable {
			var zero T
			return zero, false, nil
		}
		return res.Value, true, nil
	})
	if err == nil && res.State == Updated && bState == Cached {
		res.State = Cached
	}
	return res, err
}

// UnresolvableFilter wraps inner with the unresolvable-coordinate
// short-circuit of spec.md §4.D.4: keys in unresolvable yield Unavailable
// immediately, without invoking inner (and so without invoking any
// producer). A key of the form "prefix|g:a:v" also matches when the part
// after its last "|" is in unresolvable, so a plain g:a:v list applies to
// repository-scoped POM keys. The set is read-only after construction.
func UnresolvableFilter[T any](inner Store[T], unresolvable map[string]struct{}) Store[T] {
	return &unresolvableStore[T]{inner: inner, unresolvable: unresolvable}
}

type unresolvableStore[T any] struct {
	inner        Store[T]
	unresolvable map[string]struct{}
}

func (u *unresolvableStore[T]) Compute(ctx context.Context, key string, orElseGet Producer[T]) (Result[T], error) {
	_, listed := u.unresolvable[key]
	if i := strings.LastIndex(key, "|"); !listed && i >= 0 {
		_, listed = u.unresolvable[key[i+1:]]
	}
	if listed {
		var zero T
		return Result[T]{State: Unavailable, Value: zero}, nil
	}
	return u.inner.Compute(ctx, key, orElseGet)
}

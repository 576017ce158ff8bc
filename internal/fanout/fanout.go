// Package fanout runs independent upstream calls concurrently and joins them.
//
// A join waits for every call it started and returns the first error that
// occurred. Calls are never cancelled by a failing sibling; their results are
// discarded instead.
package fanout

import "golang.org/x/sync/errgroup"

// Each calls fn for every item concurrently and returns the results in input order.
func Each[T, R any](items []T, fn func(i int, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	var g errgroup.Group
	for i, item := range items {
		g.Go(func() error {
			r, err := fn(i, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Pair runs two independent calls concurrently.
func Pair[A, B any](fa func() (A, error), fb func() (B, error)) (A, B, error) {
	var (
		a A
		b B
		g errgroup.Group
	)
	g.Go(func() error {
		var err error
		a, err = fa()
		return err
	})
	g.Go(func() error {
		var err error
		b, err = fb()
		return err
	})
	if err := g.Wait(); err != nil {
		var zeroA A
		var zeroB B
		return zeroA, zeroB, err
	}
	return a, b, nil
}

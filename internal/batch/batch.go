// Package batch runs items in fixed-size concurrent groups.
package batch

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Run processes items in groups of size, dispatching each group concurrently
// and waiting for the whole group to settle before the next begins. An item
// error is counted but never aborts its group or the run; only context
// cancellation stops processing early. Returns the number of failed items.
func Run[T any](ctx context.Context, items []T, size int, fn func(context.Context, T) error) (int, error) {
	if size <= 0 {
		size = 1
	}
	var failed atomic.Int64
	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return int(failed.Load()), err
		}
		end := min(start+size, len(items))

		var g errgroup.Group
		for _, item := range items[start:end] {
			g.Go(func() error {
				if err := fn(ctx, item); err != nil {
					failed.Add(1)
				}
				return nil
			})
		}
		// Item errors are swallowed above; Wait only gates group completion.
		_ = g.Wait()
	}
	return int(failed.Load()), nil
}

package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrent is the batch size when none is configured.
const DefaultMaxConcurrent = 3

// inBatches runs fn over items in fixed-size batches. Calls within a batch run
// concurrently; the next batch starts only after the whole batch finished.
// Results keep the order of items. The first error stops further batches.
func inBatches[T, R any](ctx context.Context, items []T, size int, fn func(ctx context.Context, i int, item T) (R, error)) ([]R, error) {
	if size <= 0 {
		size = DefaultMaxConcurrent
	}
	out := make([]R, len(items))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		eg, egCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			eg.Go(func() error {
				r, err := fn(egCtx, i, items[i])
				if err != nil {
					return err
				}
				out[i] = r
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

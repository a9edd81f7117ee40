package arrange

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"rowfold.dev/arrange/pkg/records"
)

// UnfoldFactor is the replication factor used by the scaled variant of the
// puzzle.
const UnfoldFactor = 5

// Totals are the two batch sums: one over the records as given, one over
// their unfolded forms. The unfolded total is always computed from scratch;
// unfolding changes a record's structure non-linearly, so it can never be
// derived from the plain total.
type Totals struct {
	Plain    int64
	Unfolded int64
}

// Aggregate counts every record in specs twice, plain and unfolded by
// factor, and sums the results.
//
// Records are independent, and every Count call owns its memo, so each
// record runs on its own goroutine; the accumulators are the only shared
// state. An unfold capacity error aborts the batch with that error.
func Aggregate(ctx context.Context, specs []records.RecordSpec, factor int) (Totals, error) {
	var (
		mu     sync.Mutex
		totals Totals
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, rs := range specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			unfolded, err := records.Unfold(rs, factor)
			if err != nil {
				return fmt.Errorf("record %q: %w", rs.Record, err)
			}

			plain := Count(rs)
			scaled := Count(unfolded)

			mu.Lock()
			totals.Plain += plain
			totals.Unfolded += scaled
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Totals{}, err
	}
	return totals, nil
}

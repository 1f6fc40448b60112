package orchestrator

import (
	"context"
	"errors"
	"sync"

	"talent-match/internal/domain/match"
)

// BatchMatch scores one candidate against many jobs with bounded
// concurrency. Results preserve the input order. Entries that fail
// validation hold a zero Result and contribute to the joined error;
// the rest of the batch still completes.
func (o *Orchestrator) BatchMatch(ctx context.Context, reqs []Request) ([]match.Result, error) {
	if len(reqs) == 0 {
		return []match.Result{}, nil
	}

	results := make([]match.Result, len(reqs))
	errs := make([]error, len(reqs))

	workers := o.batchConcurrency
	if workers > len(reqs) {
		workers = len(reqs)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				results[idx], errs[idx] = o.Match(ctx, reqs[idx])
			}
		}()
	}

dispatch:
	for i := range reqs {
		select {
		case <-ctx.Done():
			for j := i; j < len(reqs); j++ {
				errs[j] = ctx.Err()
			}
			break dispatch
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	return results, errors.Join(errs...)
}

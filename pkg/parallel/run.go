package parallel

import (
	"context"
	"fmt"

	"github.com/dd0wney/cluso-flowcore/pkg/logging"
)

// Run calls fn(ctx, i) for i in [0, n) on a pool of the given size and
// returns the error of each call by index. Tasks not started before ctx is
// cancelled get ctx.Err(). A panicking task reports it as its error.
func Run(ctx context.Context, workers, n int, logger logging.Logger, fn func(ctx context.Context, i int) error) ([]error, error) {
	if workers > n {
		workers = n
	}
	pool, err := NewWorkerPool(workers, logger)
	if err != nil {
		return nil, err
	}

	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		pool.Submit(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("task %d panicked: %v", i, r)
				}
			}()
			errs[i] = fn(ctx, i)
		})
	}
	pool.Close()

	return errs, nil
}

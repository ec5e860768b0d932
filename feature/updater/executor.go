package updater

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Executor runs a batch of transfer tasks. The reconciler is oblivious to
// whether tasks run sequentially or through a bounded pool; the
// implementation is selected from configuration. Tasks record their own
// outcomes and never return errors; an executor only fails when the context
// is cancelled.
type Executor interface {
	Execute(ctx context.Context, tasks []func(context.Context)) error
}

// NewExecutor selects the executor for the given concurrency level.
func NewExecutor(concurrency int) Executor {
	if concurrency > 1 {
		return &pooledExecutor{limit: concurrency}
	}
	return &sequentialExecutor{}
}

// sequentialExecutor runs tasks one after another.
type sequentialExecutor struct{}

func (e *sequentialExecutor) Execute(ctx context.Context, tasks []func(context.Context)) error {
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		task(ctx)
	}
	return nil
}

// pooledExecutor fans tasks out over a bounded worker pool.
type pooledExecutor struct {
	limit int
}

func (e *pooledExecutor) Execute(ctx context.Context, tasks []func(context.Context)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			task(gctx)
			return nil
		})
	}
	return g.Wait()
}

package parallel

import (
	"context"
	"fmt"

	"github.com/vnykmshr/taskflow/pkg/scheduling/future"
	"github.com/vnykmshr/taskflow/pkg/scheduling/workerpool"
)

// Map applies fn to every element of in on p and returns the results in
// input order. Unless ctx ends first it waits for every submitted call and
// returns the error of the first failing element, by index.
func Map[T, R any](ctx context.Context, p *workerpool.FuturedPool, in []T, fn func(ctx context.Context, v T) (R, error)) ([]R, error) {
	futures := make([]*future.Future[R], len(in))
	for i, v := range in {
		f, err := workerpool.SubmitFunc(p, func(ctx context.Context) (R, error) {
			return fn(ctx, v)
		})
		if err != nil {
			waitAll(futures[:i])
			return nil, fmt.Errorf("submitting element %d: %w", i, err)
		}
		futures[i] = f
	}

	out := make([]R, len(in))
	var firstErr error
	for i, f := range futures {
		v, err := f.GetContext(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("element %d: %w", i, err)
			}
			if ctx.Err() != nil {
				return nil, firstErr
			}
			continue
		}
		out[i] = v
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func waitAll[R any](futures []*future.Future[R]) {
	for _, f := range futures {
		_, _ = f.Get()
	}
}

package parallel

import (
	"cmp"
	"context"
	"slices"

	tfctx "github.com/vnykmshr/taskflow/pkg/common/context"
	"github.com/vnykmshr/taskflow/pkg/scheduling/workerpool"
)

// sequentialThreshold is the partition size below which sorting stays on
// the current goroutine.
const sequentialThreshold = 32

// QuickSort sorts data in place using p.
func QuickSort[T cmp.Ordered](ctx context.Context, p *workerpool.StealingPool, data []T) error {
	return QuickSortFunc(ctx, p, data, cmp.Compare[T])
}

// QuickSortFunc sorts data in place using p and the comparison function
// compare, which follows the slices.SortFunc convention. The sort is not
// stable.
func QuickSortFunc[T any](ctx context.Context, p *workerpool.StealingPool, data []T, compare func(a, b T) int) error {
	if len(data) < 2 {
		return nil
	}

	f, err := workerpool.SubmitStealing(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, sortPart(ctx, p, data, compare)
	})
	if err != nil {
		return err
	}
	_, err = workerpool.AwaitHelping(ctx, p, f)
	return err
}

func sortPart[T any](ctx context.Context, p *workerpool.StealingPool, data []T, compare func(a, b T) int) error {
	if len(data) <= sequentialThreshold {
		slices.SortFunc(data, compare)
		return nil
	}
	if tfctx.IsCanceled(ctx) {
		return tfctx.Err(ctx)
	}

	mid := partition(data, compare)
	lower, higher := data[:mid], data[mid+1:]

	sortedLower, err := workerpool.SubmitStealing(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, sortPart(ctx, p, lower, compare)
	})
	if err != nil {
		return err
	}

	if err := sortPart(ctx, p, higher, compare); err != nil {
		return err
	}

	_, err = workerpool.AwaitHelping(ctx, p, sortedLower)
	return err
}

// partition moves elements less than the pivot in front of it and returns
// the pivot's final index. The middle element is used as pivot.
func partition[T any](data []T, compare func(a, b T) int) int {
	last := len(data) - 1
	data[len(data)/2], data[last] = data[last], data[len(data)/2]
	pivot := data[last]

	store := 0
	for i := 0; i < last; i++ {
		if compare(data[i], pivot) < 0 {
			data[i], data[store] = data[store], data[i]
			store++
		}
	}
	data[store], data[last] = data[last], data[store]
	return store
}

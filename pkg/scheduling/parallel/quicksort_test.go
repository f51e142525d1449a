package parallel

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/taskflow/internal/testutil"
	"github.com/vnykmshr/taskflow/pkg/scheduling/workerpool"
)

func newPool(t *testing.T, workers int) *workerpool.StealingPool {
	t.Helper()
	p, err := workerpool.NewStealingPool(workerpool.Config{
		Workers: workers,
		Name:    t.Name(),
		Logger:  testutil.Logger(t),
	})
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func randomInts(n int, seed int64) []int {
	r := rand.New(rand.NewSource(seed))
	out := make([]int, n)
	for i := range out {
		out[i] = r.Intn(n)
	}
	return out
}

func TestQuickSort(t *testing.T) {
	inputs := map[string][]int{
		"empty":      {},
		"single":     {1},
		"pair":       {2, 1},
		"random":     randomInts(5000, 1),
		"sorted":     sortedInts(2000),
		"reversed":   reversed(sortedInts(2000)),
		"duplicates": repeated(7, 1000),
	}

	for _, workers := range []int{1, 2, 4} {
		for name, in := range inputs {
			t.Run(fmt.Sprintf("%s/workers=%d", name, workers), func(t *testing.T) {
				p := newPool(t, workers)
				data := slices.Clone(in)
				want := slices.Clone(in)
				slices.Sort(want)

				ctx, cancel := testutil.WithTimeout(t)
				defer cancel()
				require.NoError(t, QuickSort(ctx, p, data))
				assert.Equal(t, want, data)
			})
		}
	}
}

func TestQuickSortFunc(t *testing.T) {
	p := newPool(t, 2)

	words := strings.Fields("the quick brown fox jumps over the lazy dog and keeps running far away from the hunters who chase it through the forest until night falls and the stars appear above")
	want := slices.Clone(words)
	byLen := func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	}
	slices.SortFunc(want, byLen)

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	require.NoError(t, QuickSortFunc(ctx, p, words, byLen))
	assert.Equal(t, want, words)
}

func TestQuickSort_ClosedPool(t *testing.T) {
	p, err := workerpool.NewStealingPool(workerpool.Config{Workers: 1})
	require.NoError(t, err)
	p.Close()

	err = QuickSort(context.Background(), p, randomInts(100, 2))
	assert.Error(t, err)
}

func TestQuickSort_Canceled(t *testing.T) {
	p := newPool(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := QuickSort(ctx, p, randomInts(1000, 3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPartition(t *testing.T) {
	data := []int{5, 3, 9, 1, 7, 2, 8}
	mid := partition(data, func(a, b int) int { return a - b })

	pivot := data[mid]
	for _, v := range data[:mid] {
		assert.Less(t, v, pivot)
	}
	for _, v := range data[mid+1:] {
		assert.GreaterOrEqual(t, v, pivot)
	}
}

func BenchmarkQuickSort(b *testing.B) {
	p, err := workerpool.NewStealingPool(workerpool.Config{Workers: 4})
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	in := randomInts(100000, 4)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := slices.Clone(in)
		if err := QuickSort(ctx, p, data); err != nil {
			b.Fatal(err)
		}
	}
}

func sortedInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func reversed(in []int) []int {
	slices.Reverse(in)
	return in
}

func repeated(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

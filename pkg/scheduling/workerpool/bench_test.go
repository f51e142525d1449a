package workerpool

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// BenchmarkFixedPoolSubmit measures the overhead of task submission and execution
func BenchmarkFixedPoolSubmit(b *testing.B) {
	pool, err := NewFixedPool(Config{Workers: 4})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	var wg sync.WaitGroup
	wg.Add(b.N)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = pool.Go(wg.Done)
		}
	})
	wg.Wait()
}

// BenchmarkFuturedPoolRoundTrip measures submit plus Get latency
func BenchmarkFuturedPoolRoundTrip(b *testing.B) {
	pool, err := NewFuturedPool(Config{Workers: 4})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err := SubmitFunc(pool, func(context.Context) (int, error) { return i, nil })
		if err != nil {
			b.Fatal(err)
		}
		_, _ = f.Get()
	}
}

// BenchmarkStealingPoolScaling runs a recursive workload at several pool sizes
func BenchmarkStealingPoolScaling(b *testing.B) {
	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			pool, err := NewStealingPool(Config{Workers: workers})
			if err != nil {
				b.Fatal(err)
			}
			defer pool.Close()

			ctx := context.Background()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				f, err := SubmitStealing(ctx, pool, func(ctx context.Context) (int, error) {
					return fib(ctx, pool, 12)
				})
				if err != nil {
					b.Fatal(err)
				}
				if _, err := AwaitHelping(ctx, pool, f); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkPanicRecovery measures the cost of recovering a panicking task
func BenchmarkPanicRecovery(b *testing.B) {
	pool, err := NewFuturedPool(Config{Workers: 2})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err := SubmitFunc(pool, func(context.Context) (int, error) { panic("bench") })
		if err != nil {
			b.Fatal(err)
		}
		_, _ = f.Get()
	}
}

// BenchmarkStats measures snapshot cost under load
func BenchmarkStats(b *testing.B) {
	pool, err := NewStealingPool(Config{Workers: 4})
	if err != nil {
		b.Fatal(err)
	}
	defer pool.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pool.Stats()
	}
}

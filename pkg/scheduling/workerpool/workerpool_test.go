package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/taskflow/internal/testutil"
	tferrors "github.com/vnykmshr/taskflow/pkg/common/errors"
	"github.com/vnykmshr/taskflow/pkg/metrics"
)

// TestTask is a simple task for testing.
type TestTask struct {
	Duration    time.Duration
	ShouldErr   bool
	ShouldPanic bool
	Executed    *atomic.Int32
}

func (t *TestTask) Execute(ctx context.Context) error {
	t.Executed.Add(1)

	if t.ShouldPanic {
		panic("test panic")
	}

	if t.Duration > 0 {
		select {
		case <-time.After(t.Duration):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if t.ShouldErr {
		return errors.New("test error")
	}

	return nil
}

func newFixed(t *testing.T, workers int) *FixedPool {
	t.Helper()
	pool, err := NewFixedPool(Config{Workers: workers, Name: t.Name(), Logger: testutil.Logger(t)})
	testutil.AssertNoError(t, err)
	return pool
}

func TestNewFixedPool(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
		wantErr bool
	}{
		{"single worker", 1, 1, false},
		{"several workers", 3, 3, false},
		{"default workers", 0, runtime.NumCPU(), false},
		{"negative workers", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewFixedPool(Config{Workers: tt.workers})
			if tt.wantErr {
				testutil.AssertError(t, err)
				if !tferrors.IsValidationError(err) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			testutil.AssertNoError(t, err)
			defer pool.Close()

			testutil.AssertEqual(t, pool.Size(), tt.want)
			testutil.AssertEqual(t, pool.Stats().Workers, tt.want)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	testutil.AssertEqual(t, cfg.Workers, runtime.NumCPU())
	testutil.AssertEqual(t, cfg.Name, "default")
}

func TestFixedPool_BasicTaskExecution(t *testing.T) {
	pool := newFixed(t, 2)
	defer pool.Close()

	var executed atomic.Int32
	testutil.AssertNoError(t, pool.Submit(&TestTask{Executed: &executed}))

	testutil.WaitForInt32(t, &executed, 1, time.Second)
}

func TestFixedPool_MultipleTaskExecution(t *testing.T) {
	pool := newFixed(t, 4)
	defer pool.Close()

	const numTasks = 200
	var executed atomic.Int32
	for i := 0; i < numTasks; i++ {
		testutil.AssertNoError(t, pool.Go(func() { executed.Add(1) }))
	}

	testutil.WaitForInt32(t, &executed, numTasks, 2*time.Second)
	require.Eventually(t, func() bool {
		return pool.Stats().Executed == numTasks
	}, time.Second, time.Millisecond)

	stats := pool.Stats()
	testutil.AssertEqual(t, stats.Submitted, int64(numTasks))
	testutil.AssertEqual(t, stats.Failed, int64(0))
	testutil.AssertEqual(t, stats.Pending(), int64(0))
}

func TestFixedPool_SingleWorkerRunsInOrder(t *testing.T) {
	pool := newFixed(t, 1)
	defer pool.Close()

	var (
		mu    sync.Mutex
		order []int
		done  atomic.Int32
	)
	for i := 0; i < 50; i++ {
		testutil.AssertNoError(t, pool.Go(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			done.Add(1)
		}))
	}

	testutil.WaitForInt32(t, &done, 50, 2*time.Second)
	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		testutil.AssertEqual(t, v, i)
	}
}

func TestFixedPool_TaskErrorAndPanic(t *testing.T) {
	pool := newFixed(t, 1)
	defer pool.Close()

	var executed atomic.Int32
	testutil.AssertNoError(t, pool.Submit(&TestTask{ShouldErr: true, Executed: &executed}))
	testutil.AssertNoError(t, pool.Submit(&TestTask{ShouldPanic: true, Executed: &executed}))
	// the worker survives both and keeps going
	testutil.AssertNoError(t, pool.Submit(&TestTask{Executed: &executed}))

	testutil.WaitForInt32(t, &executed, 3, time.Second)
	require.Eventually(t, func() bool {
		return pool.Stats().Executed == 3
	}, time.Second, time.Millisecond)

	stats := pool.Stats()
	testutil.AssertEqual(t, stats.Failed, int64(2))
	testutil.AssertEqual(t, stats.Panicked, int64(1))
}

func TestFixedPool_SubmitNilTask(t *testing.T) {
	pool := newFixed(t, 1)
	defer pool.Close()

	err := pool.Submit(nil)
	testutil.AssertError(t, err)
	if !tferrors.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	var nilTask *TestTask
	testutil.AssertError(t, pool.Submit(nilTask))
	testutil.AssertError(t, pool.Go(nil))
}

func TestFixedPool_SubmitToClosedPool(t *testing.T) {
	pool := newFixed(t, 2)
	pool.Close()
	pool.Close()

	err := pool.Go(func() {})
	if !errors.Is(err, tferrors.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if !pool.Closed() {
		t.Error("pool should report closed")
	}
}

func TestFixedPool_CloseDropsQueuedTasks(t *testing.T) {
	pool := newFixed(t, 1)

	started := make(chan struct{})
	testutil.AssertNoError(t, pool.Submit(TaskFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})))
	<-started

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		testutil.AssertNoError(t, pool.Go(func() { ran.Add(1) }))
	}

	pool.Close()

	testutil.AssertEqual(t, ran.Load(), int32(0))
	stats := pool.Stats()
	testutil.AssertEqual(t, stats.Dropped, int64(5))
	testutil.AssertEqual(t, stats.Queued, 0)
	testutil.AssertEqual(t, stats.Pending(), int64(0))
}

func TestFixedPool_DrainRunsEverything(t *testing.T) {
	pool := newFixed(t, 2)

	var executed atomic.Int32
	for i := 0; i < 50; i++ {
		testutil.AssertNoError(t, pool.Submit(&TestTask{Duration: time.Millisecond, Executed: &executed}))
	}

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	testutil.AssertNoError(t, pool.Drain(ctx))

	testutil.AssertEqual(t, executed.Load(), int32(50))
	testutil.AssertEqual(t, pool.Stats().Dropped, int64(0))
	if !pool.Closed() {
		t.Error("Drain should close the pool")
	}
}

func TestFixedPool_DrainTimeout(t *testing.T) {
	pool := newFixed(t, 1)

	release := make(chan struct{})
	testutil.AssertNoError(t, pool.Submit(TaskFunc(func(ctx context.Context) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})))
	for i := 0; i < 3; i++ {
		testutil.AssertNoError(t, pool.Go(func() {}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.Drain(ctx)
	close(release)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if !tferrors.IsTemporary(err) {
		t.Errorf("deadline error should wrap ErrTimeout, got %v", err)
	}
	testutil.AssertEqual(t, pool.Stats().Dropped, int64(3))
}

func TestFixedPool_ConcurrentSubmit(t *testing.T) {
	pool := newFixed(t, 4)
	defer pool.Close()

	const (
		submitters = 8
		perWorker  = 100
	)
	var executed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if err := pool.Go(func() { executed.Add(1) }); err != nil {
					t.Errorf("submit: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	testutil.WaitForInt32(t, &executed, submitters*perWorker, 5*time.Second)
}

func TestFixedPool_Metrics(t *testing.T) {
	reg := metrics.NewRegistry(prometheus.NewRegistry())
	pool, err := NewFixedPool(Config{Workers: 2, Name: "metered", Metrics: reg, Logger: testutil.Logger(t)})
	testutil.AssertNoError(t, err)
	defer pool.Close()

	var executed atomic.Int32
	for i := 0; i < 10; i++ {
		testutil.AssertNoError(t, pool.Submit(&TestTask{ShouldErr: i%2 == 0, Executed: &executed}))
	}
	require.Eventually(t, func() bool {
		return promtest.ToFloat64(reg.TasksExecuted.WithLabelValues("metered")) == 10
	}, 2*time.Second, time.Millisecond)

	testutil.AssertEqual(t, promtest.ToFloat64(reg.TasksSubmitted.WithLabelValues("metered")), 10.0)
	testutil.AssertEqual(t, promtest.ToFloat64(reg.TasksFailed.WithLabelValues("metered")), 5.0)
	testutil.AssertEqual(t, promtest.ToFloat64(reg.WorkerPoolSize.WithLabelValues("metered")), 2.0)
}

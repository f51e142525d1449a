// Package thread provides joinable goroutines and a guard that joins a set of
// them when closed.
package thread

import (
	"sync"
	"sync/atomic"
)

// Thread is a goroutine that can be joined.
type Thread struct {
	done   chan struct{}
	joined atomic.Bool
}

// Spawn starts fn on a new goroutine.
func Spawn(fn func()) *Thread {
	t := &Thread{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		fn()
	}()
	return t
}

// Done is closed when the goroutine returns.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// Join blocks until the goroutine returns. Joining more than once is allowed.
func (t *Thread) Join() {
	<-t.done
	t.joined.Store(true)
}

// Joinable reports whether the thread has not been joined yet.
func (t *Thread) Joinable() bool {
	return !t.joined.Load()
}

// JoinGuard joins every joinable thread of a slice it borrows. Owners declare
// the guard after the slice it references and close it before the slice is
// reused.
type JoinGuard struct {
	mu      sync.Mutex
	threads *[]*Thread
}

// NewJoinGuard binds a guard to threads. The slice may grow after the guard
// is created; Close sees its contents at the time of the call.
func NewJoinGuard(threads *[]*Thread) *JoinGuard {
	return &JoinGuard{threads: threads}
}

// Close joins each joinable thread in order. It is safe to call repeatedly;
// threads already joined are skipped.
func (g *JoinGuard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.threads == nil {
		return
	}
	for _, t := range *g.threads {
		if t != nil && t.Joinable() {
			t.Join()
		}
	}
}

/*
Package task defines Handle, the unit of work carried through the worker pools.

A Handle owns exactly one callable. The callable can be a plain function, a
value implementing Task (typically a bound method), or a packaged function
whose result is delivered through a future:

	h := task.New(func() { fmt.Println("hello") })

	h, f := task.Package(func(ctx context.Context) (int, error) {
		return 42, nil
	})

Handles are move-only. Move transfers the callable to a fresh Handle and
leaves the source empty, and Run consumes the callable, so a task runs at
most once no matter how many goroutines hold the pointer. Handles embed an
atomic value and must not be copied after first use.
*/
package task

package coro

// GoAll spawns one child task per function in fns against rt, all running
// concurrently, and suspends the caller t until every one of them has
// completed. Child tasks here are fire-and-forget and void — tasks
// never carry a return value — so completion is all GoAll reports; a
// function that needs to report a result must do so itself, e.g. by writing
// into a variable captured from the enclosing scope before it returns.
func GoAll(rt *Runtime, t *Task, fns []func(*Task)) {
	if len(fns) == 0 {
		return
	}
	wg := NewWaitGroup()
	wg.Add(int64(len(fns)))
	for _, fn := range fns {
		body := fn
		child := NewTask(rt, func(ct *Task) {
			defer wg.Done()
			body(ct)
		})
		Go(child)
	}
	wg.Wait(t)
}

// ForEach spawns one child task per item in items, running fn(childTask,
// item) concurrently for each, and suspends the caller t until all of them
// complete. It is GoAll specialized to the common "fan out over a slice"
// shape.
func ForEach[T any](rt *Runtime, t *Task, items []T, fn func(*Task, T)) {
	fns := make([]func(*Task), len(items))
	for i, item := range items {
		item := item
		fns[i] = func(ct *Task) { fn(ct, item) }
	}
	GoAll(rt, t, fns)
}

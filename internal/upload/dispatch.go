package upload

import "sync"

// Dispatcher runs upload tasks without the caller waiting on them.
type Dispatcher interface {
	Dispatch(task func())
}

// GoDispatcher runs every task on its own goroutine.
type GoDispatcher struct{}

// Dispatch starts task on a new goroutine and returns immediately.
func (GoDispatcher) Dispatch(task func()) {
	go task()
}

// TrackingDispatcher is a GoDispatcher that can be drained. Processes that
// exit after firing uploads (the CLI) call Wait so the requests are not cut
// off; the handler itself never waits.
type TrackingDispatcher struct {
	wg sync.WaitGroup
}

// Dispatch starts task on a new goroutine that Wait accounts for.
func (d *TrackingDispatcher) Dispatch(task func()) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		task()
	}()
}

// Wait blocks until every dispatched task has returned.
func (d *TrackingDispatcher) Wait() {
	d.wg.Wait()
}

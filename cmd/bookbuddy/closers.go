package main

import "sync"

var (
	closersMu sync.Mutex
	closers   []func()
)

// registerCloser queues cleanup that must run however the process exits.
func registerCloser(fn func()) {
	closersMu.Lock()
	defer closersMu.Unlock()
	closers = append(closers, fn)
}

// closeAll runs queued cleanup in reverse order, once.
func closeAll() {
	closersMu.Lock()
	defer closersMu.Unlock()
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}

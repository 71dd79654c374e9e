package orchestrator

import "sync"

// RunLock guards the browser-based fetch cycle: at most one runs at a
// time, and concurrent attempts fail fast instead of queuing. The lock is
// in-process only; a multi-instance deployment would need a shared lease
// behind the same two-method contract.
type RunLock struct {
	mu   sync.Mutex
	held bool
}

// TryAcquire takes the lock, reporting false if it is already held.
func (l *RunLock) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held {
		return false
	}
	l.held = true
	return true
}

// Release frees the lock. Releasing an unheld lock is a no-op.
func (l *RunLock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
}

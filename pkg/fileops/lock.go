package fileops

import "sync"

// PathLocker provides per-path mutual exclusion for file mutations.
// Operations on the same path serialize; operations on disjoint paths
// proceed without contention. There is no global lock across unrelated files.
//
// Lock entries are reference counted and removed once the last holder
// releases, so the internal map does not grow with every path ever touched.
type PathLocker struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

// NewPathLocker creates an empty PathLocker.
func NewPathLocker() *PathLocker {
	return &PathLocker{locks: make(map[string]*pathLock)}
}

// Lock acquires the lock for path, blocking until it is available, and
// returns a release function. The release function must be called exactly
// once; deferring it immediately guarantees release on every exit path.
//
// Usage example:
//
//	release := locker.Lock("/ws/a.txt")
//	defer release()
func (l *PathLocker) Lock(path string) func() {
	l.mu.Lock()
	entry, ok := l.locks[path]
	if !ok {
		entry = &pathLock{}
		l.locks[path] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, path)
			}
			l.mu.Unlock()
		})
	}
}

// Len returns the number of paths currently holding or awaiting a lock.
// Intended for tests and diagnostics.
func (l *PathLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

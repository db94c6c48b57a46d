// Package mutex provides a mutex per key, used to serialize session
// setup per TIN in processes that serve many companies.
package mutex

import (
	"sync"
	"sync/atomic"
)

type entry struct {
	mu      sync.Mutex
	holders atomic.Int32
}

// Keyed hands out one mutex per key. Entries are dropped as soon as no
// goroutine holds or waits on them, so the table stays bounded by the
// number of keys in active use rather than the number ever seen.
type Keyed[K comparable] struct {
	table sync.Map // map[K]*entry
}

// Lock acquires the mutex for key, creating it on first use.
func (m *Keyed[K]) Lock(key K) {
	for {
		v, _ := m.table.LoadOrStore(key, &entry{})
		e := v.(*entry)
		if e.holders.Add(1) > 0 {
			e.mu.Lock()
			return
		}
		// Lost a race with an Unlock that is about to delete the entry;
		// back out and fetch a fresh one.
		e.holders.Add(-1)
	}
}

// Unlock releases the mutex for key and removes the entry when nobody
// else holds or waits on it.
func (m *Keyed[K]) Unlock(key K) {
	v, ok := m.table.Load(key)
	if !ok {
		panic("mutex: unlock of unheld key")
	}
	e := v.(*entry)
	e.mu.Unlock()
	if e.holders.Add(-1) == 0 {
		// Mark the entry dead before deleting so a concurrent Lock that
		// already loaded it retries instead of locking a removed mutex.
		if e.holders.CompareAndSwap(0, -1<<30) {
			m.table.CompareAndDelete(key, e)
		}
	}
}

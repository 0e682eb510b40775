package lockmap

import (
	"sync"
)

// Registry maps an opaque key (a room id) to a process-wide mutex. Handles are
// created lazily on first use and are never evicted: the footprint is bounded
// by the number of distinct keys seen during the process lifetime, and lookups
// after the first use are lock-free.
//
// The registry only provides mutual exclusion within a single process. A
// multi-instance deployment needs either per-resource request routing or a
// store-level pessimistic lock instead.
type Registry struct {
	handles sync.Map // key -> *sync.Mutex
}

func New() *Registry {
	return &Registry{}
}

// handle returns the mutex for key, installing one if the key has never been
// seen. Concurrent first uses for the same key converge on a single mutex.
func (r *Registry) handle(key string) *sync.Mutex {
	if existing, ok := r.handles.Load(key); ok {
		return existing.(*sync.Mutex)
	}

	created, _ := r.handles.LoadOrStore(key, &sync.Mutex{})

	return created.(*sync.Mutex)
}

// Do runs fn while holding the mutex for key. The mutex is released on every
// exit path, and fn's error is returned untouched.
func (r *Registry) Do(key string, fn func() error) error {
	mutex := r.handle(key)

	mutex.Lock()
	defer mutex.Unlock()

	return fn()
}

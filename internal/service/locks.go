package service

import "sync"

// LockRegistry serializes mutations per document id: at most one in-flight
// advance/setStatus/resolve per document, while operations on different
// documents proceed in parallel.
type LockRegistry struct {
	locks sync.Map // document id -> *sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{}
}

// Lock acquires the mutex for the given document id and returns the unlock
// function. Locks are never evicted; the working set of document ids is
// bounded by the documents actively mutated.
func (r *LockRegistry) Lock(id string) func() {
	v, _ := r.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

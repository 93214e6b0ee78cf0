package quadtree

import (
	"runtime"
	"sync"
)

// MutexAPI is the locking capability injected into a tree. New allocates a
// mutex handle, Lock and Unlock are standard non-reentrant exclusion (Lock
// blocks until acquired) and Destroy retires a handle. The tree never
// interprets handles; it only passes them back to the same API.
type MutexAPI struct {
	New     func() any
	Lock    func(h any)
	Unlock  func(h any)
	Destroy func(h any)
}

// NoopMutexAPI returns bindings whose operations do nothing. It is the
// default for new trees. A tree on the no-op bindings must not be shared
// across goroutines; a single thread never races with itself, so the intent
// counters degenerate to plain field updates and cost nothing.
func NoopMutexAPI() MutexAPI {
	nop := func(any) {}
	return MutexAPI{
		New:     func() any { return nil },
		Lock:    nop,
		Unlock:  nop,
		Destroy: nop,
	}
}

// StdMutexAPI returns bindings backed by sync.Mutex.
func StdMutexAPI() MutexAPI {
	return MutexAPI{
		New:     func() any { return new(sync.Mutex) },
		Lock:    func(h any) { h.(*sync.Mutex).Lock() },
		Unlock:  func(h any) { h.(*sync.Mutex).Unlock() },
		Destroy: func(any) {},
	}
}

// incrIntent bumps a node's write-intent counter. The intent lock makes the
// read-modify-write atomic; it is never held across a wait.
func (t *Tree[T]) incrIntent(n *node[T]) {
	t.mapi.Lock(n.intentLock)
	n.wrlock++
	t.mapi.Unlock(n.intentLock)
}

func (t *Tree[T]) decrIntent(n *node[T]) {
	t.mapi.Lock(n.intentLock)
	n.wrlock--
	t.mapi.Unlock(n.intentLock)
}

func (t *Tree[T]) intentVal(n *node[T]) int {
	t.mapi.Lock(n.intentLock)
	v := n.wrlock
	t.mapi.Unlock(n.intentLock)
	return v
}

// awaitWriter spins until the caller's increment is the only intent on the
// node. Called with the node's content lock held, which queues later arrivals
// behind this writer.
func (t *Tree[T]) awaitWriter(n *node[T]) {
	for t.intentVal(n) != 1 {
		runtime.Gosched()
	}
}

// awaitReader spins until no writer holds the node. Called with the node's
// content lock held.
func (t *Tree[T]) awaitReader(n *node[T]) {
	for t.intentVal(n) >= 0 {
		runtime.Gosched()
	}
}

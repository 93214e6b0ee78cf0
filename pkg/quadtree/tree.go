package quadtree

import (
	"runtime"

	"github.com/ssargent/njorddb/pkg/geo"
)

// DefaultCap is the per-node element threshold at which a leaf subdivides.
const DefaultCap = 4

// Predicate decides whether an element belongs in a region. It must be total,
// side-effect free and deterministic, and monotonic: if it holds for a region
// it must hold for any region that fully contains it, or subdivision and
// Clear lose elements.
type Predicate[T comparable] func(elem T, region geo.Rect) bool

// Tree is a point quadtree over caller-owned elements. The tree borrows
// handles and never owns element payloads. See the package documentation for
// the concurrency model.
type Tree[T comparable] struct {
	root   *node[T]
	pred   Predicate[T]
	maxCap uint16

	// wrlock is the tree-global write-intent counter. Insert, Remove and
	// FindInArea drive it negative (readers), Clear drives it positive.
	wrlock int
	lock   any
	mapi   MutexAPI
}

// New builds a tree whose root covers [x, x+w] x [y, y+h]. The tree starts on
// the no-op mutex bindings with capacity DefaultCap; call SetMutexAPI before
// sharing it across goroutines.
func New[T comparable](x, y, w, h float64, pred Predicate[T]) *Tree[T] {
	t := &Tree[T]{
		pred:   pred,
		maxCap: DefaultCap,
		mapi:   NoopMutexAPI(),
	}
	t.lock = t.mapi.New()
	t.root = t.newNode(geo.FromOrigin(x, y, w, h))
	return t
}

// SetMutexAPI installs the locking capability, allocating the tree lock and a
// lock pair for every extant node. Handles from a previous installation are
// destroyed with the old bindings first. The call itself is not synchronized:
// it must happen before any concurrent use of the tree.
func (t *Tree[T]) SetMutexAPI(api MutexAPI) {
	old := t.mapi
	old.Destroy(t.lock)

	t.mapi = api
	t.lock = api.New()
	t.root.setLocks(old, api)
}

// SetMaxCap sets the subdivision threshold, clamped to at least 1. Nodes that
// already exceed a lower threshold are not resubdivided retroactively.
func (t *Tree[T]) SetMaxCap(n uint16) {
	if n < 1 {
		n = 1
	}
	t.mapi.Lock(t.lock)
	t.maxCap = n
	t.mapi.Unlock(t.lock)
}

func (t *Tree[T]) maxCapacity() uint16 {
	t.mapi.Lock(t.lock)
	n := t.maxCap
	t.mapi.Unlock(t.lock)
	return n
}

// readerEnter takes tree-global reader intent, waiting out any exclusive
// holder. Mutations and queries both enter the tree as readers; the per-node
// protocol does the fine-grained exclusion between them. The claim is a
// single check-and-decrement under the tree lock, so a reader can never
// slip between an exclusive claim and its wait.
func (t *Tree[T]) readerEnter() {
	for {
		t.mapi.Lock(t.lock)
		if t.wrlock <= 0 {
			t.wrlock--
			t.mapi.Unlock(t.lock)
			return
		}
		t.mapi.Unlock(t.lock)
		runtime.Gosched()
	}
}

func (t *Tree[T]) readerExit() {
	t.mapi.Lock(t.lock)
	t.wrlock++
	t.mapi.Unlock(t.lock)
}

// Insert places elem in the tree. An element the predicate rejects at the
// root is dropped without notice; constraining inputs to the root bound is
// part of the caller contract.
func (t *Tree[T]) Insert(elem T) {
	t.readerEnter()
	t.insert(t.root, elem)
	t.readerExit()
}

// Remove deletes the first stored occurrence of elem. Removing an element
// that is not present is a no-op; an element inserted twice must be removed
// twice.
func (t *Tree[T]) Remove(elem T) {
	t.readerEnter()
	t.remove(t.root, elem)
	t.readerExit()
}

// FindInArea returns the elements the predicate accepts for the query region
// spanning [x, x+w] x [y, y+h]. The caller owns the returned slice. Each
// stored occurrence appears once, since an insert lands in exactly one node;
// a handle inserted twice and not removed is returned twice. Subtrees whose
// bound only touches the region are pruned, so an element lying exactly on
// the region's edge inside such a subtree is not returned.
func (t *Tree[T]) FindInArea(x, y, w, h float64) []T {
	t.readerEnter()

	out := &resultList[T]{rng: geo.FromOrigin(x, y, w, h)}
	t.query(t.root, out)

	t.readerExit()
	return out.items
}

// Clear resets the tree to a single empty root with the same bound. It takes
// tree-exclusive intent, waits for in-flight readers to drain, swaps in the
// fresh root, and releases the old subtree outside the exclusive section to
// keep the hold time bounded.
func (t *Tree[T]) Clear() {
	for {
		t.mapi.Lock(t.lock)
		if t.wrlock == 0 {
			t.wrlock++
			t.mapi.Unlock(t.lock)
			break
		}
		t.mapi.Unlock(t.lock)
		runtime.Gosched()
	}

	old := t.root
	t.root = t.newNode(old.bound)

	t.mapi.Lock(t.lock)
	t.wrlock--
	t.mapi.Unlock(t.lock)

	t.free(old)
}

// Free releases every node and lock handle. Element payloads are caller-owned
// and left alone. The tree must not be used afterwards.
func (t *Tree[T]) Free() {
	t.mapi.Lock(t.lock)

	if t.root != nil {
		t.free(t.root)
		t.root = nil
	}

	t.mapi.Unlock(t.lock)
	t.mapi.Destroy(t.lock)
	t.lock = nil
}

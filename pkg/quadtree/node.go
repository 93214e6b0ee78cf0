package quadtree

import "github.com/ssargent/njorddb/pkg/geo"

// node is a single quadtree cell. A node is either a leaf or has all four
// children; once subdivided, the children exist for the lifetime of the node
// and leaves are never reconstituted on removal.
//
// wrlock is the node's write-intent counter: negative while readers are
// active, 1 while a writer owns the node, 0 when idle. contentLock guards the
// check-and-wait on the counter; intentLock makes its updates atomic.
type node[T comparable] struct {
	bound geo.Rect
	elems []T

	nw, ne, sw, se *node[T]

	wrlock      int
	contentLock any
	intentLock  any
}

func (t *Tree[T]) newNode(bound geo.Rect) *node[T] {
	return &node[T]{
		bound:       bound,
		contentLock: t.mapi.New(),
		intentLock:  t.mapi.New(),
	}
}

// add appends an element. Insertion order is preserved; the same handle may
// be added twice and must then be removed twice.
func (n *node[T]) add(elem T) {
	n.elems = append(n.elems, elem)
}

// drop removes the element at index i, keeping the order of the survivors.
func (n *node[T]) drop(i int) {
	n.elems = append(n.elems[:i], n.elems[i+1:]...)
}

// subdivide creates the four child quadrants. The y axis grows downward, so
// NW and NE cover the small-y half of the parent bound. Precondition: n is a
// leaf and the caller holds exclusive intent on it.
func (t *Tree[T]) subdivide(n *node[T]) {
	cx := n.bound.CX
	cy := n.bound.CY
	hw := n.bound.HW / 2
	hh := n.bound.HH / 2

	n.nw = t.newNode(geo.Rect{CX: cx - hw, CY: cy - hh, HW: hw, HH: hh})
	n.ne = t.newNode(geo.Rect{CX: cx + hw, CY: cy - hh, HW: hw, HH: hh})
	n.sw = t.newNode(geo.Rect{CX: cx - hw, CY: cy + hh, HW: hw, HH: hh})
	n.se = t.newNode(geo.Rect{CX: cx + hw, CY: cy + hh, HW: hw, HH: hh})
}

// insert places elem in the first node of the NW, NE, SW, SE descent whose
// bound accepts it and which has spare capacity, or whose first accepting
// child accepted it recursively. Elements already stored in a node that
// subdivides stay put; only later arrivals are pushed down.
//
// Exclusive intent is taken per node and released before descending, so a
// concurrent reader in a sibling subtree is never blocked. If all four
// children refuse the element it is dropped; a predicate that respects the
// partition never reaches that state.
func (t *Tree[T]) insert(n *node[T], elem T) bool {
	t.mapi.Lock(n.contentLock)
	t.incrIntent(n)
	t.awaitWriter(n)
	t.mapi.Unlock(n.contentLock)

	if !t.pred(elem, n.bound) {
		t.decrIntent(n)
		return false
	}

	if len(n.elems) < int(t.maxCapacity()) {
		n.add(elem)
		t.decrIntent(n)
		return true
	}

	if n.nw == nil {
		t.subdivide(n)
	}

	t.decrIntent(n)

	if t.insert(n.nw, elem) {
		return true
	}
	if t.insert(n.ne, elem) {
		return true
	}
	if t.insert(n.sw, elem) {
		return true
	}
	return t.insert(n.se, elem)
}

// remove drops the first stored occurrence of elem, scanning this node's
// elements before recursing NW, NE, SW, SE. Reports whether a match was
// found.
func (t *Tree[T]) remove(n *node[T], elem T) bool {
	t.mapi.Lock(n.contentLock)
	t.incrIntent(n)
	t.awaitWriter(n)
	t.mapi.Unlock(n.contentLock)

	for i, e := range n.elems {
		if e == elem {
			n.drop(i)
			t.decrIntent(n)
			return true
		}
	}

	t.decrIntent(n)

	if n.nw == nil {
		return false
	}

	if t.remove(n.nw, elem) {
		return true
	}
	if t.remove(n.ne, elem) {
		return true
	}
	if t.remove(n.sw, elem) {
		return true
	}
	return t.remove(n.se, elem)
}

// query collects the elements matching out's range from the subtree under n.
// Node-local work runs under reader intent; children are visited without
// holding this node, each enforcing its own exclusion. The bound check is
// strict, so a range that only touches a cell prunes it.
func (t *Tree[T]) query(n *node[T], out *resultList[T]) {
	t.mapi.Lock(n.contentLock)
	t.decrIntent(n)
	t.awaitReader(n)
	t.mapi.Unlock(n.contentLock)

	if !n.bound.Intersects(out.rng) {
		t.incrIntent(n)
		return
	}

	for _, e := range n.elems {
		if t.pred(e, out.rng) {
			out.add(e)
		}
	}

	if n.nw == nil {
		t.incrIntent(n)
		return
	}

	t.incrIntent(n)

	t.query(n.nw, out)
	t.query(n.ne, out)
	t.query(n.sw, out)
	t.query(n.se, out)
}

// free releases a subtree post-order: element storage, then children, then
// this node's lock pair. The content lock is held across the teardown.
func (t *Tree[T]) free(n *node[T]) {
	t.mapi.Lock(n.contentLock)

	n.elems = nil

	if n.nw != nil {
		t.free(n.nw)
		t.free(n.ne)
		t.free(n.sw)
		t.free(n.se)
		n.nw, n.ne, n.sw, n.se = nil, nil, nil, nil
	}

	t.mapi.Unlock(n.contentLock)
	t.mapi.Destroy(n.contentLock)
	t.mapi.Destroy(n.intentLock)
}

// setLocks retires a node's handles with the old bindings and allocates a
// fresh pair with the new ones, recursing through the whole subtree.
func (n *node[T]) setLocks(old, next MutexAPI) {
	old.Destroy(n.contentLock)
	old.Destroy(n.intentLock)
	n.contentLock = next.New()
	n.intentLock = next.New()

	if n.nw != nil {
		n.nw.setLocks(old, next)
		n.ne.setLocks(old, next)
		n.sw.setLocks(old, next)
		n.se.setLocks(old, next)
	}
}

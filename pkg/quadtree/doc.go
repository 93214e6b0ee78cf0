// Package quadtree provides a point-quadtree spatial index that is safe for
// concurrent readers and writers.
//
// The tree stores opaque handles to caller-owned elements and partitions 2D
// space recursively into four quadrants per level. Placement is delegated to a
// caller-supplied predicate, so one tree serves one notion of "belongs in this
// region"; the index itself never inspects elements.
//
// Concurrency is a two-tier intent protocol. The tree and every node carry a
// signed write-intent counter: negative while readers hold intent, positive
// while a writer does, zero when idle. Insert, Remove and FindInArea enter
// the tree as readers; as they descend, Insert and Remove take exclusive
// intent node by node and FindInArea takes shared reader intent, so queries and mutations overlap freely on disjoint subtrees while
// conflicting operations on the same node are serialized. Clear is the only
// tree-exclusive operation. The tree provides per-node atomicity only: a
// reader crossing two subtrees may observe a concurrent write in one and not
// the other. It is not a serializable store.
//
// All locking goes through an injected MutexAPI. The default is the no-op
// binding, which erases every lock operation for single-threaded use; call
// SetMutexAPI(StdMutexAPI()) before sharing a tree across goroutines. Waits
// on intent counters are unbounded; there is no cancellation or timeout.
package quadtree

package quadtree

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMutexAPI(t *testing.T) {
	api := NoopMutexAPI()

	h := api.New()
	assert.Nil(t, h)

	// All operations are harmless on the nil handle.
	api.Lock(h)
	api.Unlock(h)
	api.Destroy(h)
}

func TestStdMutexAPI(t *testing.T) {
	api := StdMutexAPI()

	h := api.New()
	require.IsType(t, &sync.Mutex{}, h)

	api.Lock(h)
	locked := h.(*sync.Mutex).TryLock()
	assert.False(t, locked, "handle should be held")
	api.Unlock(h)

	api.Lock(h)
	api.Unlock(h)
	api.Destroy(h)
}

func TestTree_SetMutexAPIOnPopulatedTree(t *testing.T) {
	tree := newTestTree()
	tree.SetMaxCap(2)

	// Grow a few levels on the no-op bindings first.
	pts := []*point{{10, 10}, {20, 20}, {60, 20}, {20, 60}, {60, 60}, {80, 80}}
	for _, p := range pts {
		tree.Insert(p)
	}
	require.NotNil(t, tree.root.nw)

	// Installing real mutexes allocates a handle pair for every extant node.
	tree.SetMutexAPI(StdMutexAPI())

	walkNodes(tree.root, func(n *node[*point]) {
		assert.IsType(t, &sync.Mutex{}, n.contentLock)
		assert.IsType(t, &sync.Mutex{}, n.intentLock)
	})
	assert.IsType(t, &sync.Mutex{}, tree.lock)

	// The tree keeps working across the swap.
	found := tree.FindInArea(0, 0, 100, 100)
	assert.Len(t, found, len(pts))

	tree.Insert(&point{5, 95})
	assert.Len(t, tree.FindInArea(0, 0, 100, 100), len(pts)+1)
}

func TestTree_SetMutexAPIReinstall(t *testing.T) {
	tree := newTestTree()
	tree.Insert(&point{40, 40})

	tree.SetMutexAPI(StdMutexAPI())
	first := tree.root.contentLock

	// Reinstalling retires the previous handles and allocates fresh ones.
	tree.SetMutexAPI(StdMutexAPI())
	assert.NotSame(t, first, tree.root.contentLock)

	assert.Len(t, tree.FindInArea(0, 0, 100, 100), 1)
}

func TestTree_SingleThreadedOnNoopBindings(t *testing.T) {
	tree := newTestTree()

	// A full workload on the no-op bindings: the intent counters degenerate
	// to plain field updates and every operation still behaves.
	for i := 0; i < 50; i++ {
		tree.Insert(&point{float64(i * 2), float64(i)})
	}
	tree.Remove(tree.root.elems[0])
	tree.Clear()
	tree.Insert(&point{1, 1})

	assert.Len(t, tree.FindInArea(0, 0, 100, 100), 1)
	tree.Free()
}

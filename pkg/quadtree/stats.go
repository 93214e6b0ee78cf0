package quadtree

import (
	"fmt"
	"io"
	"strings"
)

// Stats is a point-in-time summary of the tree shape.
type Stats struct {
	Nodes    int `json:"nodes"`
	Elements int `json:"elements"`
	MaxDepth int `json:"max_depth"`
}

// Stats walks the tree under reader intent and tallies its shape. Like any
// query it sees each node atomically but not the tree as a whole.
func (t *Tree[T]) Stats() Stats {
	t.readerEnter()

	var s Stats
	t.statsWalk(t.root, 1, &s)

	t.readerExit()
	return s
}

func (t *Tree[T]) statsWalk(n *node[T], depth int, s *Stats) {
	t.mapi.Lock(n.contentLock)
	t.decrIntent(n)
	t.awaitReader(n)
	t.mapi.Unlock(n.contentLock)

	s.Nodes++
	s.Elements += len(n.elems)
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}

	if n.nw == nil {
		t.incrIntent(n)
		return
	}

	t.incrIntent(n)

	t.statsWalk(n.nw, depth+1, s)
	t.statsWalk(n.ne, depth+1, s)
	t.statsWalk(n.sw, depth+1, s)
	t.statsWalk(n.se, depth+1, s)
}

// Dump writes an indented rendering of the tree to w, one node per line.
// It takes no node-level intent and is meant for debugging quiescent trees.
func (t *Tree[T]) Dump(w io.Writer) {
	t.readerEnter()
	t.dump(w, t.root, 0)
	t.readerExit()
}

func (t *Tree[T]) dump(w io.Writer, n *node[T], depth int) {
	fmt.Fprintf(w, "%s(%g, %g) +-(%g, %g) elems=%d\n",
		strings.Repeat("  ", depth),
		n.bound.CX, n.bound.CY, n.bound.HW, n.bound.HH, len(n.elems))

	if n.nw == nil {
		return
	}
	t.dump(w, n.nw, depth+1)
	t.dump(w, n.ne, depth+1)
	t.dump(w, n.sw, depth+1)
	t.dump(w, n.se, depth+1)
}

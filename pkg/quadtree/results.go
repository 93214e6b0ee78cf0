package quadtree

import "github.com/ssargent/njorddb/pkg/geo"

// resultList collects the handles matched by an area query, together with the
// range the query was built for.
type resultList[T comparable] struct {
	rng   geo.Rect
	items []T
}

func (r *resultList[T]) add(elem T) {
	r.items = append(r.items, elem)
}

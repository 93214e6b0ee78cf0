// Package geo provides the axis-aligned bounding box used by the spatial index.
package geo

import "math"

// Rect is an axis-aligned rectangle described by its center and half-extents.
// The y axis grows downward (screen convention): a rectangle's north edge is
// its smallest y coordinate.
type Rect struct {
	CX float64 // center x
	CY float64 // center y
	HW float64 // half width
	HH float64 // half height
}

// FromOrigin builds a Rect from a top-left origin and full dimensions.
func FromOrigin(x, y, w, h float64) Rect {
	return Rect{CX: x + w/2, CY: y + h/2, HW: w / 2, HH: h / 2}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// The box is closed: points on the edges count as inside.
func (r Rect) Contains(x, y float64) bool {
	return r.CX-r.HW <= x && x <= r.CX+r.HW &&
		r.CY-r.HH <= y && y <= r.CY+r.HH
}

// Intersects reports whether r and o overlap. The test is strict: rectangles
// that only touch along an edge or at a corner do not intersect. Contains is
// closed while Intersects is open; range pruning in the index relies on that
// asymmetry, since placement predicates typically use Contains semantics.
func (r Rect) Intersects(o Rect) bool {
	return math.Abs(r.CX-o.CX) < r.HW+o.HW &&
		math.Abs(r.CY-o.CY) < r.HH+o.HH
}

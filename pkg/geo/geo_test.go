package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromOrigin(t *testing.T) {
	r := FromOrigin(0, 0, 100, 50)
	assert.Equal(t, Rect{CX: 50, CY: 25, HW: 50, HH: 25}, r)
}

func TestRect_ContainsIsClosed(t *testing.T) {
	r := Rect{CX: 50, CY: 50, HW: 50, HH: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 50, 50, true},
		{"interior", 10, 90, true},
		{"west edge", 0, 50, true},
		{"east edge", 100, 50, true},
		{"north-west corner", 0, 0, true},
		{"south-east corner", 100, 100, true},
		{"west of box", -0.001, 50, false},
		{"south of box", 50, 100.001, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Contains(tt.x, tt.y))
		})
	}
}

func TestRect_IntersectsIsStrict(t *testing.T) {
	r := Rect{CX: 50, CY: 50, HW: 50, HH: 50}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"identical", Rect{CX: 50, CY: 50, HW: 50, HH: 50}, true},
		{"contained", Rect{CX: 50, CY: 50, HW: 10, HH: 10}, true},
		{"overlapping corner", Rect{CX: 90, CY: 90, HW: 20, HH: 20}, true},
		{"touching east edge", Rect{CX: 125, CY: 50, HW: 25, HH: 50}, false},
		{"touching corner", Rect{CX: 125, CY: 125, HW: 25, HH: 25}, false},
		{"disjoint", Rect{CX: 300, CY: 50, HW: 25, HH: 25}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(r))
		})
	}
}

// A point on a shared edge is contained by both halves (closed boxes) while
// the halves themselves do not intersect (strict overlap). Subtree pruning
// depends on this asymmetry.
func TestRect_ContainsIntersectsAsymmetry(t *testing.T) {
	west := Rect{CX: 25, CY: 50, HW: 25, HH: 50}
	east := Rect{CX: 75, CY: 50, HW: 25, HH: 50}

	assert.True(t, west.Contains(50, 50))
	assert.True(t, east.Contains(50, 50))
	assert.False(t, west.Intersects(east))
}

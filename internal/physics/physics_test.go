package physics

import (
	"math"
	"slices"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCirclesOverlapIsStrict(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 30, Y: 0}

	if CirclesOverlap(a, 10, b, 20) {
		t.Error("touching circles must not collide")
	}
	if !CirclesOverlap(a, 10, b, 20.001) {
		t.Error("overlapping circles must collide")
	}
}

func TestPointInCircle(t *testing.T) {
	c := Vec2{X: 100, Y: 100}
	if !PointInCircle(Vec2{X: 103, Y: 104}, c, 5.1) {
		t.Error("point at distance 5 should be inside radius 5.1")
	}
	if PointInCircle(Vec2{X: 103, Y: 104}, c, 5) {
		t.Error("point on the boundary should be outside")
	}
}

func TestClampLenPreservesDirection(t *testing.T) {
	v := Vec2{X: 30, Y: -40}
	got := v.ClampLen(5)

	if !approx(got.Len(), 5) {
		t.Fatalf("len = %v, want 5", got.Len())
	}
	if !approx(got.Angle(), v.Angle()) {
		t.Errorf("angle = %v, want %v", got.Angle(), v.Angle())
	}

	short := Vec2{X: 1, Y: 1}
	if short.ClampLen(5) != short {
		t.Error("vectors under the limit must be returned unchanged")
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi/2, 10)
	if !approx(v.X, 0) || !approx(v.Y, 10) {
		t.Errorf("FromAngle(pi/2, 10) = %+v", v)
	}
}

func TestSpatialGridQueryAround(t *testing.T) {
	g := NewSpatialGrid(1024, 768, 65)
	g.Insert(Vec2{X: 10, Y: 10}, 0)
	g.Insert(Vec2{X: 1020, Y: 10}, 1) // neighbour across the wrap seam
	g.Insert(Vec2{X: 500, Y: 400}, 2)

	var found []int
	g.QueryAround(Vec2{X: 20, Y: 20}, func(i int) bool {
		found = append(found, i)
		return false
	})
	slices.Sort(found)
	if !slices.Equal(found, []int{0, 1}) {
		t.Errorf("found = %v, want [0 1]", found)
	}

	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
	g.Clear()
	if g.Len() != 0 {
		t.Errorf("Len after Clear = %d", g.Len())
	}
}

func TestSpatialGridStopsEarly(t *testing.T) {
	g := NewSpatialGrid(200, 200, 100)
	for i := range 5 {
		g.Insert(Vec2{X: 50, Y: 50}, i)
	}
	calls := 0
	g.QueryAround(Vec2{X: 50, Y: 50}, func(int) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSpatialGridNarrowVisitsOnce(t *testing.T) {
	g := NewSpatialGrid(100, 100, 100)
	g.Insert(Vec2{X: 1, Y: 1}, 7)

	calls := 0
	g.QueryAround(Vec2{X: 99, Y: 99}, func(int) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("single-cell grid visited item %d times, want 1", calls)
	}
}

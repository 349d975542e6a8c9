// Package physics provides vector math, circle collision tests and a
// broad-phase grid for the wrapped arena.
package physics

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return b.Sub(a).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec2) float64 {
	return b.Sub(a).LenSquared()
}

// PointInCircle reports whether p lies strictly inside the circle.
func PointInCircle(p, center Vec2, radius float64) bool {
	return DistanceSquared(p, center) < radius*radius
}

// CirclesOverlap reports whether two circles collide: the distance between
// their centers is less than the sum of their radii. Touching is not a hit.
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a, b) < minDist*minDist
}

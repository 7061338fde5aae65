// Package geo provides the planar geometry primitives used by unit matching:
// point-in-polygon membership for isochrone tests and straight-line distance.
package geo

import "math"

// raySentinel is the latitude used as the far endpoint of the test ray.
// It must exceed any real-world coordinate value.
const raySentinel = 10000

// Coordinate is a (latitude, longitude) pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Polygon is an ordered, implicitly closed ring of vertices. The closing edge
// from the last vertex back to the first is implied; no duplicate end vertex
// is stored.
type Polygon []Coordinate

const (
	collinear        = 0
	clockwise        = 1
	counterClockwise = 2
)

// onSegment reports whether q lies on segment pr, assuming p, q and r are
// already known to be collinear.
func onSegment(p, q, r Coordinate) bool {
	return q.Lat <= math.Max(p.Lat, r.Lat) && q.Lat >= math.Min(p.Lat, r.Lat) &&
		q.Lon <= math.Max(p.Lon, r.Lon) && q.Lon >= math.Min(p.Lon, r.Lon)
}

// orientation classifies the ordered triplet (p, q, r) by the sign of the 2D
// cross product.
func orientation(p, q, r Coordinate) int {
	val := (q.Lon-p.Lon)*(r.Lat-q.Lat) - (q.Lat-p.Lat)*(r.Lon-q.Lon)
	if val == 0 {
		return collinear
	}
	if val > 0 {
		return clockwise
	}
	return counterClockwise
}

// segmentsIntersect reports whether segments p1q1 and p2q2 intersect,
// including the degenerate collinear-overlap cases.
func segmentsIntersect(p1, q1, p2, q2 Coordinate) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear special cases: an endpoint of one segment lies on the other.
	if o1 == collinear && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == collinear && onSegment(p1, q2, q1) {
		return true
	}
	if o3 == collinear && onSegment(p2, p1, q2) {
		return true
	}
	if o4 == collinear && onSegment(p2, q1, q2) {
		return true
	}
	return false
}

// PointInPolygon reports whether p lies inside poly using the even-odd
// ray-casting rule. A point exactly on a polygon edge counts as inside.
// Polygons with fewer than 3 vertices contain nothing.
func PointInPolygon(poly Polygon, p Coordinate) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	// Cast a ray from p to a point far outside the polygon on the same
	// longitude.
	extreme := Coordinate{Lat: raySentinel, Lon: p.Lon}

	count := 0
	i := 0
	for {
		next := (i + 1) % n
		if segmentsIntersect(poly[i], poly[next], p, extreme) {
			// If p is collinear with the edge, membership reduces to
			// whether p lies on that edge.
			if orientation(poly[i], p, poly[next]) == collinear {
				return onSegment(poly[i], p, poly[next])
			}
			count++
		}
		i = next
		if i == 0 {
			break
		}
	}
	return count%2 == 1
}

// Distance returns the planar Euclidean distance between two coordinates.
// This is a comparison metric, not a physical distance.
func Distance(a, b Coordinate) float64 {
	return math.Abs(math.Sqrt((a.Lat-b.Lat)*(a.Lat-b.Lat) + (a.Lon-b.Lon)*(a.Lon-b.Lon)))
}

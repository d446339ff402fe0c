package geom

// Planar geometry helpers used by the gesture recognizer.
//
// Screen coordinates: x grows to the right, y grows downward. Angles are
// reported counter-clockwise positive, as a reader looking at the screen
// would expect, so the y axis is flipped before atan2.

import "math"

// Point is an integer screen position in device pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Div divides both coordinates, truncating toward zero.
func (p Point) Div(n int) Point { return Point{X: p.X / n, Y: p.Y / n} }

// Length is the euclidean norm of p seen as a vector.
func (p Point) Length() float64 { return math.Hypot(float64(p.X), float64(p.Y)) }

// Dist is the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Length() }

// Vec converts p to a floating point vector.
func (p Point) Vec() Vec2 { return Vec2{X: float64(p.X), Y: float64(p.Y)} }

// Dir quantizes p, seen as a vector, to one of the four cardinal directions.
func (p Point) Dir() Dir { return p.Vec().Dir() }

// Vec2 is a floating point vector.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(w Vec2) Vec2      { return Vec2{X: v.X + w.X, Y: v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2      { return Vec2{X: v.X - w.X, Y: v.Y - w.Y} }
func (v Vec2) Scale(k float64) Vec2 { return Vec2{X: v.X * k, Y: v.Y * k} }
func (v Vec2) Dot(w Vec2) float64   { return v.X*w.X + v.Y*w.Y }
func (v Vec2) Length() float64      { return math.Hypot(v.X, v.Y) }
func (v Vec2) Point() Point         { return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))} }

// Dir returns the dominant cardinal direction of v. Ties go to the vertical axis.
func (v Vec2) Dir() Dir {
	if math.Abs(v.X) > math.Abs(v.Y) {
		if math.Signbit(v.X) {
			return West
		}
		return East
	}
	if math.Signbit(v.Y) {
		return North
	}
	return South
}

// DiagDir returns the diagonal quadrant v points into.
func (v Vec2) DiagDir() DiagDir {
	if !math.Signbit(v.X) {
		if !math.Signbit(v.Y) {
			return SouthEast
		}
		return NorthEast
	}
	if !math.Signbit(v.Y) {
		return SouthWest
	}
	return NorthWest
}

// Angle is the polar angle of v in radians, counter-clockwise positive.
func (v Vec2) Angle() float64 { return math.Atan2(-v.Y, v.X) }

// SignedAngle returns the angle in degrees that rotates from to onto to,
// counter-clockwise positive, normalised to (-180, 180].
func SignedAngle(from, to Vec2) float64 {
	deg := (to.Angle() - from.Angle()) * 180 / math.Pi
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// NearestSegmentPoint projects p onto the segment [a, b]. It returns the
// projected point and its parameter t in [0, 1]. A degenerate segment
// projects everything onto a.
func NearestSegmentPoint(p, a, b Vec2) (Vec2, float64) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.Scale(t)), t
}

// Elbow returns the index of the point of path farthest from the segment
// joining its endpoints. The first maximum wins. Paths shorter than three
// points have no interior, so the middle index is returned.
func Elbow(path []Point) int {
	n := len(path)
	if n < 3 {
		return n / 2
	}
	a, b := path[0].Vec(), path[n-1].Vec()
	best, bestDist := n/2, -1.0
	for i, p := range path {
		v := p.Vec()
		q, _ := NearestSegmentPoint(v, a, b)
		if d := v.Sub(q).Length(); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// MMToPx converts a physical length to device pixels for a display density.
func MMToPx(mm, dpi float64) float64 { return mm / 25.4 * dpi }

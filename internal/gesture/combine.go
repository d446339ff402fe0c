package gesture

import (
	"math"

	"codrawer-gesture-bridge/internal/geom"
)

// Combine decides the gesture for the strokes of one overlapping-contact
// episode. A single stroke is classified as is; two strokes may form a
// compound gesture; three or more are discarded. ok is false when nothing
// should be emitted.
func Combine(strokes [][]geom.Point, jitter float64) (g Gesture, ok bool) {
	switch len(strokes) {
	case 0:
		return nil, false
	case 1:
		return Classify(strokes[0], jitter), true
	case 2:
		return combinePair(Classify(strokes[0], jitter), Classify(strokes[1], jitter))
	default:
		return nil, false
	}
}

func combinePair(g1, g2 Gesture) (Gesture, bool) {
	switch a := g1.(type) {
	case Tap:
		if b, ok := g2.(Tap); ok {
			return MultiTap{Centers: [2]geom.Point{a.Center, b.Center}}, true
		}
		if s, e, ok := endpoints(g2); ok {
			return rotate(a.Center, s, e), true
		}
	case Swipe:
		switch b := g2.(type) {
		case Swipe:
			if a.Dir == b.Dir {
				return MultiSwipe{
					Dir:    a.Dir,
					Starts: [2]geom.Point{a.Start, b.Start},
					Ends:   [2]geom.Point{a.End, b.End},
				}, true
			}
			if a.Dir == b.Dir.Opposite() {
				return pinchOrSpread(a, b), true
			}
		case Tap:
			return rotate(b.Center, a.Start, a.End), true
		}
	case Arrow:
		switch b := g2.(type) {
		case Arrow:
			return cross(a, b)
		case Tap:
			return rotate(b.Center, a.Start, a.End), true
		}
	case Corner:
		if b, ok := g2.(Tap); ok {
			return rotate(b.Center, a.Start, a.End), true
		}
	}
	return nil, false
}

// endpoints returns the start and end of a stroke-shaped gesture.
func endpoints(g Gesture) (start, end geom.Point, ok bool) {
	switch s := g.(type) {
	case Swipe:
		return s.Start, s.End, true
	case Arrow:
		return s.Start, s.End, true
	case Corner:
		return s.Start, s.End, true
	}
	return geom.Point{}, geom.Point{}, false
}

func pinchOrSpread(a, b Swipe) Gesture {
	starts := [2]geom.Point{a.Start, b.Start}
	ends := [2]geom.Point{a.End, b.End}
	ds := a.Start.Dist(b.Start)
	de := a.End.Dist(b.End)
	if ds > de {
		return Pinch{Axis: a.Dir.Axis(), Strength: uint32(ds - de), Starts: starts, Ends: ends}
	}
	return Spread{Axis: a.Dir.Axis(), Strength: uint32(de - ds), Starts: starts, Ends: ends}
}

// cross matches an east arrow drawn left of a west arrow, in either order.
func cross(a, b Arrow) (Gesture, bool) {
	if a.Dir == geom.West && b.Dir == geom.East {
		a, b = b, a
	}
	if a.Dir != geom.East || b.Dir != geom.West || a.Start.X >= b.Start.X {
		return nil, false
	}
	return Cross{Center: a.Start.Add(a.End).Add(b.Start).Add(b.End).Div(4)}, true
}

// rotate measures the turn from start to end around the stationary finger c.
func rotate(c, start, end geom.Point) Rotate {
	angle := geom.SignedAngle(start.Sub(c).Vec(), end.Sub(c).Vec())
	return Rotate{
		Center:       c,
		QuarterTurns: int8(math.Round(angle / 90)),
		Angle:        angle,
	}
}

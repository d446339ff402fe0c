package gesture

import (
	"math"

	"codrawer-gesture-bridge/internal/geom"
)

// Classify turns the path of one finished contact into a provisional
// gesture: a Tap, Swipe, Arrow or Corner. jitter is in pixels.
//
// A path whose endpoints are closer than jitter is a tap. Otherwise the
// sample farthest from the chord decides: when it strays by more than a
// fifth of the chord length the stroke is curved, and the direction of the
// deviation picks between an arrow (one axis dominates) and a corner.
func Classify(path []geom.Point, jitter float64) Gesture {
	if len(path) == 0 {
		return Tap{}
	}
	a, b := path[0], path[len(path)-1]
	ab := b.Sub(a)
	d := ab.Length()
	if d < jitter {
		return Tap{Center: a}
	}

	p := path[geom.Elbow(path)].Vec()
	n, _ := geom.NearestSegmentPoint(p, a.Vec(), b.Vec())
	dev := p.Sub(n)
	if dev.Length() > d/5 {
		g := math.Abs(dev.X / dev.Y)
		if g < 0.5 || g > 2 {
			return Arrow{Dir: dev.Dir(), Start: a, End: b}
		}
		return Corner{Dir: dev.DiagDir(), Start: a, End: b}
	}
	return Swipe{Dir: ab.Dir(), Start: a, End: b}
}

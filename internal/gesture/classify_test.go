package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codrawer-gesture-bridge/internal/geom"
)

func path(pts ...int) []geom.Point {
	out := make([]geom.Point, 0, len(pts)/2)
	for i := 0; i+1 < len(pts); i += 2 {
		out = append(out, geom.Pt(pts[i], pts[i+1]))
	}
	return out
}

func TestClassify(t *testing.T) {
	const jitter = 10.0

	tests := []struct {
		name string
		path []geom.Point
		want Gesture
	}{
		{
			name: "still finger",
			path: path(100, 100),
			want: Tap{Center: geom.Pt(100, 100)},
		},
		{
			name: "wobble under jitter",
			path: path(100, 100, 108, 90, 103, 104),
			want: Tap{Center: geom.Pt(100, 100)},
		},
		{
			name: "straight east",
			path: path(0, 0, 50, 2, 100, 0),
			want: Swipe{Dir: geom.East, Start: geom.Pt(0, 0), End: geom.Pt(100, 0)},
		},
		{
			name: "straight north",
			path: path(10, 200, 12, 100, 10, 0),
			want: Swipe{Dir: geom.North, Start: geom.Pt(10, 200), End: geom.Pt(10, 0)},
		},
		{
			name: "two samples",
			path: path(300, 50, 20, 60),
			want: Swipe{Dir: geom.West, Start: geom.Pt(300, 50), End: geom.Pt(20, 60)},
		},
		{
			name: "bowed downward",
			path: path(0, 0, 50, 40, 100, 0),
			want: Arrow{Dir: geom.South, Start: geom.Pt(0, 0), End: geom.Pt(100, 0)},
		},
		{
			name: "bowed right of a vertical chord",
			path: path(0, 0, 40, 50, 0, 100),
			want: Arrow{Dir: geom.East, Start: geom.Pt(0, 0), End: geom.Pt(0, 100)},
		},
		{
			name: "right angle",
			path: path(0, 0, 50, 0, 100, 0, 100, 50, 100, 100),
			want: Corner{Dir: geom.NorthEast, Start: geom.Pt(0, 0), End: geom.Pt(100, 100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path, jitter))
		})
	}
}

func TestClassifyTapUsesFirstPosition(t *testing.T) {
	// Any path whose endpoints stay within jitter is a tap at the landing point.
	for dx := -5; dx <= 5; dx++ {
		for dy := -5; dy <= 5; dy++ {
			p := path(200, 200, 200+3*dx, 200-3*dy, 200+dx, 200+dy)
			assert.Equal(t, Tap{Center: geom.Pt(200, 200)}, Classify(p, 10))
		}
	}
}

func TestClassifyStraightStrokeFollowsChord(t *testing.T) {
	ends := []geom.Point{
		geom.Pt(400, 0), geom.Pt(-400, 30), geom.Pt(25, 400), geom.Pt(-60, -400),
		geom.Pt(300, 250), geom.Pt(-250, 300),
	}
	for _, end := range ends {
		p := []geom.Point{geom.Pt(0, 0), end.Div(3), end.Div(2), end}
		g := Classify(p, 10)
		assert.Equal(t, Swipe{Dir: end.Dir(), Start: geom.Pt(0, 0), End: end}, g, "end=%v", end)
	}
}

func TestClassifyEmptyPath(t *testing.T) {
	assert.Equal(t, Tap{}, Classify(nil, 10))
}

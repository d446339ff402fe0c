package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codrawer-gesture-bridge/internal/geom"
)

func TestCombineSingleStroke(t *testing.T) {
	g, ok := Combine([][]geom.Point{path(0, 0, 100, 0)}, 10)
	require.True(t, ok)
	assert.Equal(t, Swipe{Dir: geom.East, Start: geom.Pt(0, 0), End: geom.Pt(100, 0)}, g)
}

func TestCombinePairs(t *testing.T) {
	tests := []struct {
		name    string
		strokes [][]geom.Point
		want    Gesture
	}{
		{
			name:    "two taps",
			strokes: [][]geom.Point{path(10, 10, 12, 11), path(300, 300)},
			want:    MultiTap{Centers: [2]geom.Point{geom.Pt(10, 10), geom.Pt(300, 300)}},
		},
		{
			name:    "parallel swipes",
			strokes: [][]geom.Point{path(0, 0, 200, 0), path(0, 100, 210, 105)},
			want: MultiSwipe{
				Dir:    geom.East,
				Starts: [2]geom.Point{geom.Pt(0, 0), geom.Pt(0, 100)},
				Ends:   [2]geom.Point{geom.Pt(200, 0), geom.Pt(210, 105)},
			},
		},
		{
			name:    "fingers closing",
			strokes: [][]geom.Point{path(0, 100, 40, 100), path(200, 100, 160, 100)},
			want: Pinch{
				Axis:     geom.Horizontal,
				Strength: 80,
				Starts:   [2]geom.Point{geom.Pt(0, 100), geom.Pt(200, 100)},
				Ends:     [2]geom.Point{geom.Pt(40, 100), geom.Pt(160, 100)},
			},
		},
		{
			name:    "fingers opening vertically",
			strokes: [][]geom.Point{path(50, 300, 50, 100), path(50, 400, 50, 600)},
			want: Spread{
				Axis:     geom.Vertical,
				Strength: 400,
				Starts:   [2]geom.Point{geom.Pt(50, 300), geom.Pt(50, 400)},
				Ends:     [2]geom.Point{geom.Pt(50, 100), geom.Pt(50, 600)},
			},
		},
		{
			name: "cross",
			strokes: [][]geom.Point{
				path(100, 0, 140, 50, 100, 100),
				path(200, 0, 160, 50, 200, 100),
			},
			want: Cross{Center: geom.Pt(150, 50)},
		},
		{
			name: "cross in the other order",
			strokes: [][]geom.Point{
				path(200, 0, 160, 50, 200, 100),
				path(100, 0, 140, 50, 100, 100),
			},
			want: Cross{Center: geom.Pt(150, 50)},
		},
		{
			name:    "quarter turn around a tap",
			strokes: [][]geom.Point{path(100, 100), path(200, 100, 100, 0)},
			want:    Rotate{Center: geom.Pt(100, 100), QuarterTurns: 1, Angle: 90},
		},
		{
			name:    "clockwise turn with swipe first",
			strokes: [][]geom.Point{path(100, 0, 200, 100), path(100, 100)},
			want:    Rotate{Center: geom.Pt(100, 100), QuarterTurns: -1, Angle: -90},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := Combine(tt.strokes, 10)
			require.True(t, ok)
			if want, isRotate := tt.want.(Rotate); isRotate {
				got, ok := g.(Rotate)
				require.True(t, ok, "got %T", g)
				assert.Equal(t, want.Center, got.Center)
				assert.Equal(t, want.QuarterTurns, got.QuarterTurns)
				assert.InDelta(t, want.Angle, got.Angle, 1e-9)
				return
			}
			assert.Equal(t, tt.want, g)
		})
	}
}

func TestCombineRotateAroundCurvedStrokes(t *testing.T) {
	center := path(500, 500)

	arrow := path(600, 500, 640, 550, 600, 600)
	g, ok := Combine([][]geom.Point{arrow, center}, 10)
	require.True(t, ok)
	assert.IsType(t, Rotate{}, g)

	corner := path(600, 500, 700, 500, 700, 600)
	g, ok = Combine([][]geom.Point{center, corner}, 10)
	require.True(t, ok)
	r, isRotate := g.(Rotate)
	require.True(t, isRotate)
	assert.Equal(t, geom.Pt(500, 500), r.Center)
	assert.Equal(t, int8(0), r.QuarterTurns)
	assert.InDelta(t, -26.565, r.Angle, 0.01)
}

func TestRotateAngleRange(t *testing.T) {
	c := geom.Pt(100, 100)

	// A half turn reports +180 whichever way round it went.
	r := rotate(c, geom.Pt(200, 100), geom.Pt(0, 100))
	assert.InDelta(t, 180, r.Angle, 1e-9)
	assert.Equal(t, int8(2), r.QuarterTurns)

	// Three quarters counter-clockwise is a quarter clockwise.
	r = rotate(c, geom.Pt(200, 100), geom.Pt(100, 200))
	assert.InDelta(t, -90, r.Angle, 1e-9)
	assert.Equal(t, int8(-1), r.QuarterTurns)
}

func TestCombineNoMatch(t *testing.T) {
	tests := []struct {
		name    string
		strokes [][]geom.Point
	}{
		{"perpendicular swipes", [][]geom.Point{path(0, 0, 200, 0), path(0, 0, 0, 200)}},
		{"swipe and arrow", [][]geom.Point{path(0, 0, 200, 0), path(100, 0, 140, 50, 100, 100)}},
		{"arrows pointing apart", [][]geom.Point{path(200, 0, 240, 50, 200, 100), path(100, 0, 60, 50, 100, 100)}},
		{"two corners", [][]geom.Point{path(0, 0, 100, 0, 100, 100), path(300, 0, 400, 0, 400, 100)}},
		{"three taps", [][]geom.Point{path(0, 0), path(100, 100), path(200, 200)}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := Combine(tt.strokes, 10)
			assert.False(t, ok)
			assert.Nil(t, g)
		})
	}
}

func TestPinchStrengthIsNonNegative(t *testing.T) {
	for gap := 0; gap <= 300; gap += 25 {
		a := Swipe{Dir: geom.East, Start: geom.Pt(0, 0), End: geom.Pt(150, 0)}
		b := Swipe{Dir: geom.West, Start: geom.Pt(300+gap, 0), End: geom.Pt(150+gap, 0)}
		switch g := pinchOrSpread(a, b).(type) {
		case Pinch:
			assert.Equal(t, uint32(300), g.Strength)
		case Spread:
			t.Fatalf("gap %d: expected pinch, got %+v", gap, g)
		}
	}
}

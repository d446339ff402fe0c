package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecDir(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want Dir
	}{
		{"right", Vec2{X: 10, Y: 2}, East},
		{"left", Vec2{X: -10, Y: 3}, West},
		{"down", Vec2{X: 1, Y: 10}, South},
		{"up", Vec2{X: -1, Y: -10}, North},
		{"tie goes vertical", Vec2{X: 5, Y: -5}, North},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Dir())
		})
	}
}

func TestVecDiagDir(t *testing.T) {
	assert.Equal(t, SouthEast, Vec2{X: 3, Y: 4}.DiagDir())
	assert.Equal(t, NorthEast, Vec2{X: 3, Y: -4}.DiagDir())
	assert.Equal(t, SouthWest, Vec2{X: -3, Y: 4}.DiagDir())
	assert.Equal(t, NorthWest, Vec2{X: -3, Y: -4}.DiagDir())
}

func TestDirOppositeAndAxis(t *testing.T) {
	for _, d := range []Dir{North, East, South, West} {
		assert.Equal(t, d, d.Opposite().Opposite())
		assert.NotEqual(t, d, d.Opposite())
		assert.Equal(t, d.Axis(), d.Opposite().Axis())
	}
	assert.Equal(t, Vertical, North.Axis())
	assert.Equal(t, Horizontal, West.Axis())
}

func TestAngleIsCounterClockwise(t *testing.T) {
	// Up on screen is negative y.
	assert.InDelta(t, math.Pi/2, Vec2{X: 0, Y: -1}.Angle(), 1e-9)
	assert.InDelta(t, 0, Vec2{X: 1, Y: 0}.Angle(), 1e-9)
}

func TestSignedAngle(t *testing.T) {
	right := Vec2{X: 1, Y: 0}
	up := Vec2{X: 0, Y: -1}
	down := Vec2{X: 0, Y: 1}
	left := Vec2{X: -1, Y: 0}

	assert.InDelta(t, 90, SignedAngle(right, up), 1e-9)
	assert.InDelta(t, -90, SignedAngle(right, down), 1e-9)
	assert.InDelta(t, 180, SignedAngle(right, left), 1e-9)
	// Crossing the branch cut must not produce a 270 degree turn.
	assert.InDelta(t, 90, SignedAngle(down, right), 1e-9)
	assert.InDelta(t, -90, SignedAngle(Vec2{X: -1, Y: 0.0001}, Vec2{X: 0.0001, Y: -1}), 0.05)
}

func TestNearestSegmentPoint(t *testing.T) {
	a, b := Vec2{X: 0, Y: 0}, Vec2{X: 10, Y: 0}

	n, tt := NearestSegmentPoint(Vec2{X: 4, Y: 7}, a, b)
	assert.Equal(t, Vec2{X: 4, Y: 0}, n)
	assert.InDelta(t, 0.4, tt, 1e-9)

	n, tt = NearestSegmentPoint(Vec2{X: -5, Y: 3}, a, b)
	assert.Equal(t, a, n)
	assert.Equal(t, 0.0, tt)

	n, tt = NearestSegmentPoint(Vec2{X: 25, Y: 3}, a, b)
	assert.Equal(t, b, n)
	assert.Equal(t, 1.0, tt)

	n, _ = NearestSegmentPoint(Vec2{X: 3, Y: 3}, a, a)
	assert.Equal(t, a, n)
}

func TestElbow(t *testing.T) {
	path := []Point{Pt(0, 0), Pt(5, 1), Pt(10, 10), Pt(15, 2), Pt(20, 0)}
	assert.Equal(t, 2, Elbow(path))

	assert.Equal(t, 0, Elbow([]Point{Pt(1, 1)}))
	assert.Equal(t, 1, Elbow([]Point{Pt(1, 1), Pt(2, 2)}))
}

func TestPointArithmetic(t *testing.T) {
	p := Pt(3, 4)
	assert.Equal(t, 5.0, p.Length())
	assert.Equal(t, Pt(4, 6), p.Add(Pt(1, 2)))
	assert.Equal(t, Pt(2, 2), p.Sub(Pt(1, 2)))
	assert.Equal(t, Pt(1, 2), Pt(6, 9).Div(4))
	assert.Equal(t, 5.0, Pt(0, 0).Dist(p))
}

func TestMMToPx(t *testing.T) {
	assert.InDelta(t, 300.0, MMToPx(25.4, 300), 1e-9)
	assert.InDelta(t, 53.4, MMToPx(6, 226), 0.1)
}

package geom

// Dir is a cardinal direction on screen.
type Dir uint8

const (
	North Dir = iota
	East
	South
	West
)

func (d Dir) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the direction pointing the other way.
func (d Dir) Opposite() Dir {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Axis returns the axis d lies on.
func (d Dir) Axis() Axis {
	if d == North || d == South {
		return Vertical
	}
	return Horizontal
}

func (d Dir) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// DiagDir is a diagonal direction on screen.
type DiagDir uint8

const (
	NorthWest DiagDir = iota
	NorthEast
	SouthEast
	SouthWest
)

func (d DiagDir) String() string {
	switch d {
	case NorthWest:
		return "northwest"
	case NorthEast:
		return "northeast"
	case SouthEast:
		return "southeast"
	case SouthWest:
		return "southwest"
	default:
		return "unknown"
	}
}

func (d DiagDir) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Axis is a screen axis.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

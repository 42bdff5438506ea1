package geom

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a 2D coordinate, either geographic (lon, lat) or local planar
// meters depending on context. It marshals as a two-element JSON array to
// match the coordinate-pair shape collaborators produce.
type Point struct {
	X float64
	Y float64
}

// Polygon is an ordered vertex sequence, open or implicitly closed.
type Polygon []Point

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a point from a [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("failed to unmarshal point: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("point must be an [x, y] pair, got %d elements", len(pair))
	}
	p.X = pair[0]
	p.Y = pair[1]
	return nil
}

// Orientation is one of the four compass bins a wall or window segment is
// assigned to.
type Orientation string

const (
	North Orientation = "N"
	South Orientation = "S"
	East  Orientation = "E"
	West  Orientation = "W"
)

// OrientationOf bins a direction vector into one of the four compass
// orientations. The angle is atan2(dx, dy) in degrees normalized to
// [0, 360): [315, 360) and [0, 45) map to East, [45, 135) to South,
// [135, 225) to West, [225, 315) to North.
func OrientationOf(dx, dy float64) Orientation {
	angle := math.Atan2(dx, dy) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	switch {
	case angle >= 315 || angle < 45:
		return East
	case angle < 135:
		return South
	case angle < 225:
		return West
	default:
		return North
	}
}

// FacadeLengths accumulates facade length in meters per compass orientation.
type FacadeLengths struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Total returns the summed facade length over all four orientations.
func (f FacadeLengths) Total() float64 {
	return f.North + f.South + f.East + f.West
}

func (f *FacadeLengths) add(o Orientation, length float64) {
	switch o {
	case North:
		f.North += length
	case South:
		f.South += length
	case East:
		f.East += length
	case West:
		f.West += length
	}
}

// Package geom provides the 2D/3D value types and planar primitives the
// mesh pipeline is built on. Points are pure values with no identity and
// serialize as JSON tuples ([x,y] / [x,y,z]) to match the wire and
// persistence format.
package geom

import (
	"encoding/json"
	"fmt"
)

// Point2D is a point in plan coordinates (meters).
type Point2D struct {
	X, Y float64
}

// Point3D is a point in world coordinates (meters, Z up).
type Point3D struct {
	X, Y, Z float64
}

// MarshalJSON encodes the point as [x,y].
func (p Point2D) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes [x,y].
func (p *Point2D) UnmarshalJSON(data []byte) error {
	var tuple [2]float64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("point2d: expected [x,y]: %w", err)
	}
	p.X, p.Y = tuple[0], tuple[1]
	return nil
}

// MarshalJSON encodes the point as [x,y,z].
func (p Point3D) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{p.X, p.Y, p.Z})
}

// UnmarshalJSON decodes [x,y,z].
func (p *Point3D) UnmarshalJSON(data []byte) error {
	var tuple [3]float64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("point3d: expected [x,y,z]: %w", err)
	}
	p.X, p.Y, p.Z = tuple[0], tuple[1], tuple[2]
	return nil
}

// Package plan defines the validated 2D floor-plan input model consumed by
// the mesh pipeline: rooms as polygon rings with optional explicit wall
// segments and door/window openings, plus the generation parameters.
package plan

import (
	"fmt"

	"github.com/twinforge/twinmesh/pkg/geom"
)

// OpeningKind discriminates door and window openings.
type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// WallSegment is an explicit wall override. When a room supplies wall
// segments, they are used verbatim instead of deriving one wall per
// polygon edge.
type WallSegment struct {
	ID        string       `json:"id,omitempty"`
	Start     geom.Point2D `json:"start"`
	End       geom.Point2D `json:"end"`
	Thickness float64      `json:"thickness,omitempty"`
}

// Opening is a door or window to cut out of a wall panel. It anchors to a
// wall either by WallID or by the nearest segment to Center. Width and
// Height are the cutout extents in meters, Bottom the offset from the floor.
type Opening struct {
	ID     string        `json:"id"`
	Kind   OpeningKind   `json:"type"`
	WallID string        `json:"wall_id,omitempty"`
	Center *geom.Point2D `json:"center,omitempty"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Bottom float64       `json:"bottom"`
}

// RoomInput is one room outline with its openings. ZOffset positions the
// room floor for multi-level stacking; Height overrides the default wall
// height for this room.
type RoomInput struct {
	ID       string         `json:"id"`
	Name     string         `json:"name,omitempty"`
	Level    int            `json:"level,omitempty"`
	ZOffset  float64        `json:"z_offset"`
	Polygon  []geom.Point2D `json:"polygon"`
	Holes    [][]geom.Point2D `json:"holes,omitempty"`
	Walls    []WallSegment  `json:"walls,omitempty"`
	Openings []Opening      `json:"openings,omitempty"`
	Height   float64        `json:"height,omitempty"`
}

// Params are the mesh generation parameters. The up axis and unit are fixed
// ("z", "m") and echoed for consumers.
type Params struct {
	WallHeight     float64 `json:"wall_height"`
	WallThickness  float64 `json:"wall_thickness"`
	FloorThickness float64 `json:"floor_thickness"`
	UseCSG         bool    `json:"use_csg"`
	UpAxis         string  `json:"up_axis"`
	Units          string  `json:"units"`
}

// DefaultParams returns the generation defaults.
func DefaultParams() Params {
	return Params{
		WallHeight:    2.8,
		WallThickness: 0.12,
		UpAxis:        "z",
		Units:         "m",
	}
}

// Normalize fills zero-valued fields with defaults.
func (p *Params) Normalize() {
	if p.WallHeight <= 0 {
		p.WallHeight = 2.8
	}
	if p.WallThickness < 0 {
		p.WallThickness = 0
	}
	if p.UpAxis == "" {
		p.UpAxis = "z"
	}
	if p.Units == "" {
		p.Units = "m"
	}
}

// Validate rejects structurally malformed openings before generation.
func (o Opening) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("opening: id is required")
	}
	if o.Kind != OpeningDoor && o.Kind != OpeningWindow {
		return fmt.Errorf("opening %q: type must be door or window", o.ID)
	}
	if o.Width <= 0 {
		return fmt.Errorf("opening %q: width must be > 0", o.ID)
	}
	if o.Height <= 0 {
		return fmt.Errorf("opening %q: height must be > 0", o.ID)
	}
	if o.Bottom < 0 {
		return fmt.Errorf("opening %q: bottom must be >= 0", o.ID)
	}
	return nil
}

// Validate rejects structurally malformed rooms. Ring geometry (duplicate
// and collinear points) is normalized later by the generator; this only
// checks the payload shape.
func (r RoomInput) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("room: id is required")
	}
	if len(r.Polygon) < 3 {
		return fmt.Errorf("room %q: polygon needs at least 3 points", r.ID)
	}
	if r.Height < 0 {
		return fmt.Errorf("room %q: height must be > 0 when set", r.ID)
	}
	for _, o := range r.Openings {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("room %q: %w", r.ID, err)
		}
	}
	return nil
}

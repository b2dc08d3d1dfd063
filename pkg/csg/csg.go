// Package csg defines the volumetric wall-carving capability. The real
// implementation (pkg/csg/sdfcsg) thickens the room outline into a solid
// wall, subtracts oriented cutter solids for the openings, and returns the
// vertical faces as a mesh part. The capability is selected by the caller
// at wiring time; Unavailable is the predictable default, making the manual
// wall mesher the fallback rather than a runtime probe-and-catch.
package csg

import (
	"errors"

	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/mesh"
	"github.com/twinforge/twinmesh/pkg/plan"
)

// ErrUnavailable is returned by Unavailable and by implementations that
// cannot run in the current build or configuration.
var ErrUnavailable = errors.New("csg: volumetric carver not available")

// Request carries everything a carver needs for one room. Ring must be
// cleaned and CCW. BaseZ is the room floor height after world-offset
// correction; Offset is subtracted from the plan coordinates.
type Request struct {
	Ring          []geom.Point2D
	WallHeight    float64
	WallThickness float64
	Openings      []plan.Opening
	Offset        mesh.WorldOffset
	BaseZ         float64
}

// Carver cuts thick-walled openings volumetrically. It either fully
// succeeds or returns an error with the failure reason; it never returns a
// partial result. On any error the caller must fall back to the manual
// wall mesher.
type Carver interface {
	CarveWalls(req Request) (*mesh.Part, error)
}

// Unavailable is the no-capability Carver.
type Unavailable struct{}

// Compile-time interface check.
var _ Carver = Unavailable{}

// CarveWalls always fails with ErrUnavailable.
func (Unavailable) CarveWalls(Request) (*mesh.Part, error) {
	return nil, ErrUnavailable
}

// Package sdfcsg implements the csg.Carver interface using the
// github.com/deadsy/sdfx SDF-based CAD library. The wall solid is the room
// outline offset outward and inward by half the wall thickness, differenced
// and extruded to wall height. Opening cutters are boxes aligned to the
// nearest polygon edge, subtracted from the wall solid. Meshing is marching
// cubes, so the output is approximate and not guaranteed watertight; only
// near-vertical faces are kept to discard the extrusion caps.
package sdfcsg

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/twinforge/twinmesh/pkg/csg"
	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/mesh"
	"github.com/twinforge/twinmesh/pkg/plan"
)

// Compile-time interface check.
var _ csg.Carver = (*Carver)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// verticalMax is the |z| face-normal component above which a face is
// treated as an extrusion cap and dropped.
const verticalMax = 0.2

// cutterDepthFactor oversizes the cutter depth relative to the wall
// thickness so the cut punches fully through both wall surfaces.
const cutterDepthFactor = 2.2

// Carver is the sdfx-backed csg.Carver.
type Carver struct {
	// Cells is the marching cubes resolution. Zero means the default.
	Cells int
}

// New returns a Carver with default resolution.
func New() *Carver {
	return &Carver{Cells: defaultMeshCells}
}

// CarveWalls builds the thickened wall solid for the room, subtracts one
// cutter per center-resolvable opening, and returns the vertical faces.
func (c *Carver) CarveWalls(req csg.Request) (*mesh.Part, error) {
	if req.WallThickness <= 0 {
		return nil, errors.New("sdfcsg: wall_thickness must be > 0")
	}
	if len(req.Ring) < 3 {
		return nil, errors.New("sdfcsg: ring needs at least 3 vertices")
	}

	solid, err := c.wallSolid(req)
	if err != nil {
		return nil, err
	}

	for _, o := range req.Openings {
		if o.Center == nil {
			// Id-anchored openings have no plan position to orient a
			// cutter from; the manual mesher handles them.
			continue
		}
		if o.Width <= 0 || o.Height <= 0 {
			continue
		}
		cutter, err := c.cutterSolid(req, o)
		if err != nil {
			return nil, err
		}
		solid = sdf.Difference3D(solid, cutter)
	}

	return c.verticalFaces(solid)
}

// wallSolid extrudes the wall footprint (outer minus inner offset of the
// room polygon) to wall height, placed at the room base height.
func (c *Carver) wallSolid(req csg.Request) (sdf.SDF3, error) {
	vertices := make([]v2.Vec, len(req.Ring))
	for i, p := range req.Ring {
		vertices[i] = v2.Vec{X: p.X - req.Offset.X, Y: p.Y - req.Offset.Y}
	}

	footprint, err := sdf.Polygon2D(vertices)
	if err != nil {
		return nil, fmt.Errorf("sdfcsg: room polygon: %w", err)
	}

	half := req.WallThickness / 2
	outer := sdf.Offset2D(footprint, half)
	inner := sdf.Offset2D(footprint, -half)
	ring := sdf.Difference2D(outer, inner)

	// Extrude3D is symmetric about z=0; shift so the wall sits on the
	// room floor plane.
	solid := sdf.Extrude3D(ring, req.WallHeight)
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: req.BaseZ + req.WallHeight/2})
	return sdf.Transform3D(solid, m), nil
}

// cutterSolid builds the oriented box that punches one opening through the
// wall, aligned to the polygon edge nearest the opening center.
func (c *Carver) cutterSolid(req csg.Request, o plan.Opening) (sdf.SDF3, error) {
	dir := nearestEdgeDirection(req.Ring, *o.Center)
	angle := math.Atan2(dir.Y, dir.X)

	box, err := sdf.Box3D(v3.Vec{
		X: o.Width,
		Y: req.WallThickness * cutterDepthFactor,
		Z: o.Height,
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfcsg: opening %q cutter: %w", o.ID, err)
	}

	m := sdf.Translate3d(v3.Vec{
		X: o.Center.X - req.Offset.X,
		Y: o.Center.Y - req.Offset.Y,
		Z: req.BaseZ + o.Bottom + o.Height/2,
	}).Mul(sdf.RotateZ(angle))
	return sdf.Transform3D(box, m), nil
}

// verticalFaces meshes the solid with marching cubes and keeps only faces
// whose normal is close to horizontal.
func (c *Carver) verticalFaces(solid sdf.SDF3) (*mesh.Part, error) {
	cells := c.Cells
	if cells <= 0 {
		cells = defaultMeshCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(solid, renderer)
	if len(triangles) == 0 {
		return nil, errors.New("sdfcsg: boolean produced an empty mesh")
	}

	part := &mesh.Part{}
	for _, tri := range triangles {
		n := tri.Normal()
		if math.Abs(n.Z) >= verticalMax {
			continue
		}
		base := len(part.Vertices)
		for j := 0; j < 3; j++ {
			v := tri[j]
			part.Vertices = append(part.Vertices, geom.Point3D{X: v.X, Y: v.Y, Z: v.Z})
		}
		part.Faces = append(part.Faces, [3]int{base, base + 1, base + 2})
	}

	if part.IsEmpty() {
		return nil, errors.New("sdfcsg: no vertical faces after carving")
	}
	return part, nil
}

// nearestEdgeDirection returns the unit direction of the polygon edge
// nearest to the point.
func nearestEdgeDirection(ring []geom.Point2D, p geom.Point2D) geom.Point2D {
	best := geom.Point2D{X: 1, Y: 0}
	bestDist := math.Inf(1)
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		d := geom.DistanceToSegment(p, a, b)
		if d < bestDist {
			length := math.Hypot(b.X-a.X, b.Y-a.Y)
			if length > 1e-12 {
				bestDist = d
				best = geom.Point2D{X: (b.X - a.X) / length, Y: (b.Y - a.Y) / length}
			}
		}
	}
	return best
}

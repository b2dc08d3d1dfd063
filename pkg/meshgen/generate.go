// Package meshgen converts validated 2D room inputs into a 3D surface mesh
// with separate floor, wall and ceiling parts. Generation is a pure,
// stateless transform: no state persists between calls and independent
// callers may invoke it concurrently. A failure in any room aborts the whole
// call; part index spaces are built incrementally across rooms, so a
// partial mesh would be internally inconsistent.
package meshgen

import (
	"github.com/twinforge/twinmesh/pkg/csg"
	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/mesh"
	"github.com/twinforge/twinmesh/pkg/plan"
	"github.com/twinforge/twinmesh/pkg/triangulate"
	"github.com/twinforge/twinmesh/pkg/wall"
)

// Generate builds the mesh for a set of rooms. The carver is the volumetric
// wall capability; it is only consulted when params.UseCSG is set, and any
// carver failure silently downgrades that room to the manual wall mesher,
// with the first failure reason recorded in the output metadata. Pass nil
// for a build without the capability.
func Generate(rooms []plan.RoomInput, params plan.Params, carver csg.Carver) (*mesh.Data, error) {
	params.Normalize()
	if carver == nil {
		carver = csg.Unavailable{}
	}

	offset := worldOffset(rooms)

	data := &mesh.Data{
		Metadata: mesh.Metadata{
			WorldOffset: offset,
			Params:      params,
			Rooms:       make(map[string]mesh.RoomMeta, len(rooms)),
		},
	}

	var summary *mesh.CSGSummary
	if params.UseCSG {
		summary = &mesh.CSGSummary{Requested: true}
		data.Metadata.CSG = summary
	}

	for _, room := range rooms {
		if len(room.Holes) > 0 {
			return nil, &InputError{RoomID: room.ID, Reason: "holes are not supported"}
		}

		ring := geom.CleanRing(room.Polygon)
		if len(ring) < 3 {
			return nil, &InputError{RoomID: room.ID, Reason: "polygon needs at least 3 non-collinear points"}
		}
		if geom.SignedArea(ring) < 0 {
			geom.Reverse(ring)
		}

		height := room.Height
		if height <= 0 {
			height = params.WallHeight
		}

		triangles, err := triangulate.EarClip(ring)
		if err != nil {
			return nil, &GeometryError{RoomID: room.ID, Err: err}
		}

		baseZ := room.ZOffset - offset.Z

		appendHorizontal(&data.Floor, ring, triangles, offset, baseZ, false)
		appendHorizontal(&data.Ceiling, ring, triangles, offset, baseZ+height, true)

		var walls *mesh.Part
		if params.UseCSG {
			carved, carveErr := carver.CarveWalls(csg.Request{
				Ring:          ring,
				WallHeight:    height,
				WallThickness: params.WallThickness,
				Openings:      room.Openings,
				Offset:        offset,
				BaseZ:         baseZ,
			})
			if carveErr == nil {
				walls = carved
				summary.Used = true
			} else if summary.Reason == "" {
				summary.Reason = carveErr.Error()
			}
		}
		if walls == nil {
			walls = wall.MeshSegments(ring, height, room.Openings, room.Walls, offset, baseZ)
		}
		data.Walls.Append(walls)

		data.Metadata.Rooms[room.ID] = mesh.RoomMeta{
			Name:    room.Name,
			Height:  height,
			Polygon: ring,
		}
	}

	return data, nil
}

// appendHorizontal adds one room's floor or ceiling surface at height z.
// Floor triangles keep the CCW ring winding (upward normal); the ceiling
// reverses it so faces point down into the room.
func appendHorizontal(part *mesh.Part, ring []geom.Point2D, triangles [][3]int, offset mesh.WorldOffset, z float64, reverse bool) {
	base := len(part.Vertices)
	for _, p := range ring {
		part.Vertices = append(part.Vertices, geom.Point3D{X: p.X - offset.X, Y: p.Y - offset.Y, Z: z})
	}
	for _, t := range triangles {
		if reverse {
			part.Faces = append(part.Faces, [3]int{base + t[0], base + t[2], base + t[1]})
		} else {
			part.Faces = append(part.Faces, [3]int{base + t[0], base + t[1], base + t[2]})
		}
	}
}

// worldOffset is the 2D bounding-box center over all room polygons and
// holes, so generated geometry centers near the origin.
func worldOffset(rooms []plan.RoomInput) mesh.WorldOffset {
	first := true
	var minX, maxX, minY, maxY float64

	grow := func(p geom.Point2D) {
		if first {
			minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
			first = false
			return
		}
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	for _, room := range rooms {
		for _, p := range room.Polygon {
			grow(p)
		}
		for _, hole := range room.Holes {
			for _, p := range hole {
				grow(p)
			}
		}
	}

	if first {
		return mesh.WorldOffset{}
	}
	return mesh.WorldOffset{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
}

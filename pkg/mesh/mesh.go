// Package mesh defines the triangle mesh value types returned by the
// generator. A Data is produced once per generation call and is immutable;
// floor, walls and ceiling keep independent vertex index spaces so each can
// be rendered and textured separately.
package mesh

import (
	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/plan"
)

// Part is one renderable surface group. Faces index only into this part's
// vertices; CCW winding defines the outward normal.
type Part struct {
	Vertices []geom.Point3D `json:"vertices"`
	Faces    [][3]int       `json:"faces"`
}

// VertexCount returns the number of vertices.
func (p *Part) VertexCount() int {
	return len(p.Vertices)
}

// FaceCount returns the number of triangles.
func (p *Part) FaceCount() int {
	return len(p.Faces)
}

// IsEmpty returns true if the part has no geometry.
func (p *Part) IsEmpty() bool {
	return len(p.Vertices) == 0
}

// Append merges another part into this one, offsetting the incoming face
// indices by the current vertex count.
func (p *Part) Append(other *Part) {
	offset := len(p.Vertices)
	p.Vertices = append(p.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		p.Faces = append(p.Faces, [3]int{f[0] + offset, f[1] + offset, f[2] + offset})
	}
}

// WorldOffset is the translation subtracted from every vertex so geometry
// centers near the origin. Consumers re-align external coordinates (sensor
// locations) by subtracting the same offset.
type WorldOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RoomMeta echoes per-room inputs for traceability.
type RoomMeta struct {
	Name    string         `json:"name,omitempty"`
	Height  float64        `json:"height"`
	Polygon []geom.Point2D `json:"polygon"`
}

// CSGSummary records whether the volumetric wall path was requested, whether
// any room actually used it, and the first failure reason if it fell back.
type CSGSummary struct {
	Requested bool   `json:"requested"`
	Used      bool   `json:"used"`
	Reason    string `json:"reason,omitempty"`
}

// Metadata travels with the mesh and must be preserved verbatim by
// persistence.
type Metadata struct {
	WorldOffset WorldOffset         `json:"world_offset"`
	Params      plan.Params         `json:"params"`
	Rooms       map[string]RoomMeta `json:"rooms"`
	CSG         *CSGSummary         `json:"csg,omitempty"`
}

// Data is the complete generated mesh for one floor level.
type Data struct {
	Floor    Part     `json:"floor"`
	Walls    Part     `json:"walls"`
	Ceiling  Part     `json:"ceiling"`
	Metadata Metadata `json:"metadata"`
}

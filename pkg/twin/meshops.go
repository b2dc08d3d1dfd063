package twin

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twinforge/twinmesh/pkg/mesh"
	"github.com/twinforge/twinmesh/pkg/meshgen"
	"github.com/twinforge/twinmesh/pkg/plan"
	"github.com/twinforge/twinmesh/pkg/store"
)

// Persisted mesh formats.
const (
	FormatMesh    = "mesh_json_v2"
	FormatStacked = "stacked_mesh_v1"
)

// GenerateRequest is one mesh generation call: the 2D source plan plus
// parameter overrides. Zero-valued parameters fall back to the service
// defaults.
type GenerateRequest struct {
	HomeID string           `json:"home_id,omitempty"`
	Rooms  []plan.RoomInput `json:"rooms"`
	Params plan.Params      `json:"params"`
}

// Validate rejects structurally malformed requests before generation.
func (r *GenerateRequest) Validate() error {
	if len(r.Rooms) == 0 {
		return fmt.Errorf("at least one room is required")
	}
	for _, room := range r.Rooms {
		if err := room.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ModelSummary is the response to a generation call: counts and the id the
// full mesh can be fetched under.
type ModelSummary struct {
	MeshID      string           `json:"mesh_id"`
	HomeID      string           `json:"home_id"`
	Format      string           `json:"mesh_format"`
	WorldOffset mesh.WorldOffset `json:"world_offset"`
	Floor       PartSummary      `json:"floor"`
	Walls       PartSummary      `json:"walls"`
	Ceiling     PartSummary      `json:"ceiling"`
	CSG         *mesh.CSGSummary `json:"csg,omitempty"`
	Endpoint    string           `json:"endpoint"`
	Persisted   bool             `json:"persisted"`
}

// PartSummary carries the size of one mesh part.
type PartSummary struct {
	Vertices int `json:"vertices"`
	Faces    int `json:"faces"`
}

func summarizePart(p *mesh.Part) PartSummary {
	return PartSummary{Vertices: p.VertexCount(), Faces: p.FaceCount()}
}

// resolveParams overlays the service defaults onto unset request parameters.
func (s *Service) resolveParams(p plan.Params) plan.Params {
	if p.WallHeight <= 0 {
		p.WallHeight = s.defaults.WallHeight
	}
	if p.WallThickness <= 0 {
		p.WallThickness = s.defaults.WallThickness
	}
	p.Normalize()
	return p
}

func (s *Service) resolveHomeID(id string) string {
	if id != "" {
		return id
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.home.ID
}

// GenerateModel runs the mesh pipeline for the request, persists the result
// and returns a summary. Store failures downgrade to the in-memory fallback
// so the generated mesh stays retrievable for the session.
func (s *Service) GenerateModel(req *GenerateRequest) (*ModelSummary, *mesh.Data, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	params := s.resolveParams(req.Params)
	homeID := s.resolveHomeID(req.HomeID)

	data, err := meshgen.Generate(req.Rooms, params, s.carver)
	if err != nil {
		return nil, nil, err
	}

	rec := &store.MeshRecord{
		ID:        uuid.NewString(),
		HomeID:    homeID,
		Format:    FormatMesh,
		CreatedAt: time.Now().UTC(),
	}
	if rec.Mesh, err = json.Marshal(data); err != nil {
		return nil, nil, fmt.Errorf("encode mesh: %w", err)
	}
	if rec.Source, err = json.Marshal(req.Rooms); err != nil {
		return nil, nil, fmt.Errorf("encode source plan: %w", err)
	}
	if rec.Params, err = json.Marshal(params); err != nil {
		return nil, nil, fmt.Errorf("encode params: %w", err)
	}

	persisted := s.saveRecord(rec)

	summary := &ModelSummary{
		MeshID:      rec.ID,
		HomeID:      homeID,
		Format:      rec.Format,
		WorldOffset: data.Metadata.WorldOffset,
		Floor:       summarizePart(&data.Floor),
		Walls:       summarizePart(&data.Walls),
		Ceiling:     summarizePart(&data.Ceiling),
		CSG:         data.Metadata.CSG,
		Endpoint:    "/api/v1/3d_model/" + rec.ID,
		Persisted:   persisted,
	}
	return summary, data, nil
}

// saveRecord writes to the primary store, falling back to memory on failure.
// Returns whether the primary store accepted the record.
func (s *Service) saveRecord(rec *store.MeshRecord) bool {
	if s.primary != nil {
		err := s.primary.SaveMesh(rec)
		if err == nil {
			return true
		}
		s.log.Error("persisting mesh failed, keeping in memory", zap.String("mesh_id", rec.ID), zap.Error(err))
	}
	if err := s.fallback.SaveMesh(rec); err != nil {
		s.log.Error("in-memory mesh fallback failed", zap.Error(err))
	}
	return false
}

// Model loads a persisted mesh record by id, checking the in-memory
// fallback when the primary store misses.
func (s *Service) Model(id string) (*store.MeshRecord, error) {
	if s.primary != nil {
		rec, err := s.primary.Mesh(id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("loading mesh failed, trying fallback", zap.String("mesh_id", id), zap.Error(err))
		}
	}
	return s.fallback.Mesh(id)
}

// LatestModel loads the most recent mesh for a home.
func (s *Service) LatestModel(homeID string) (*store.MeshRecord, error) {
	homeID = s.resolveHomeID(homeID)
	if s.primary != nil {
		rec, err := s.primary.LatestMesh(homeID)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Error("loading latest mesh failed, trying fallback", zap.String("home_id", homeID), zap.Error(err))
		}
	}
	return s.fallback.LatestMesh(homeID)
}

// FloorEntry is one level in a stacked multi-floor model.
type FloorEntry struct {
	Level   int        `json:"level"`
	ZOffset float64    `json:"z_offset"`
	Height  float64    `json:"height"`
	Mesh    *mesh.Data `json:"mesh"`
}

// StackedModel is the persisted payload for a multi-level home.
type StackedModel struct {
	HomeID string       `json:"home_id"`
	Floors []FloorEntry `json:"floors"`
}

// AddFloorRequest adds one level on top of the existing stack.
type AddFloorRequest struct {
	HomeID string           `json:"home_id,omitempty"`
	Level  int              `json:"level"`
	Rooms  []plan.RoomInput `json:"rooms"`
	Params plan.Params      `json:"params"`
}

// AddFloorLevel generates a mesh for one level and appends it to the home's
// stacked model, creating the stack if none exists. Each level's rooms are
// shifted by the level z offset before generation.
func (s *Service) AddFloorLevel(req *AddFloorRequest) (*ModelSummary, *StackedModel, error) {
	genReq := &GenerateRequest{HomeID: req.HomeID, Rooms: req.Rooms, Params: req.Params}
	if err := genReq.Validate(); err != nil {
		return nil, nil, err
	}

	params := s.resolveParams(req.Params)
	homeID := s.resolveHomeID(req.HomeID)

	stack := s.loadStack(homeID)

	zOffset := 0.0
	for _, f := range stack.Floors {
		zOffset += f.Height
	}

	rooms := make([]plan.RoomInput, len(req.Rooms))
	copy(rooms, req.Rooms)
	for i := range rooms {
		rooms[i].Level = req.Level
		rooms[i].ZOffset += zOffset
	}

	data, err := meshgen.Generate(rooms, params, s.carver)
	if err != nil {
		return nil, nil, err
	}

	levelHeight := params.WallHeight
	for _, room := range rooms {
		if room.Height > levelHeight {
			levelHeight = room.Height
		}
	}

	stack.Floors = append(stack.Floors, FloorEntry{
		Level:   req.Level,
		ZOffset: zOffset,
		Height:  levelHeight,
		Mesh:    data,
	})

	rec := &store.MeshRecord{
		ID:        uuid.NewString(),
		HomeID:    homeID,
		Format:    FormatStacked,
		CreatedAt: time.Now().UTC(),
	}
	if rec.Mesh, err = json.Marshal(stack); err != nil {
		return nil, nil, fmt.Errorf("encode stacked model: %w", err)
	}
	if rec.Params, err = json.Marshal(params); err != nil {
		return nil, nil, fmt.Errorf("encode params: %w", err)
	}

	persisted := s.saveRecord(rec)

	summary := &ModelSummary{
		MeshID:      rec.ID,
		HomeID:      homeID,
		Format:      rec.Format,
		WorldOffset: data.Metadata.WorldOffset,
		Floor:       summarizePart(&data.Floor),
		Walls:       summarizePart(&data.Walls),
		Ceiling:     summarizePart(&data.Ceiling),
		CSG:         data.Metadata.CSG,
		Endpoint:    "/api/v1/3d_model/" + rec.ID,
		Persisted:   persisted,
	}
	return summary, stack, nil
}

// loadStack returns the home's current stacked model, or an empty stack when
// the latest record is missing or not a stack.
func (s *Service) loadStack(homeID string) *StackedModel {
	rec, err := s.LatestModel(homeID)
	if err != nil || rec.Format != FormatStacked {
		return &StackedModel{HomeID: homeID}
	}
	var stack StackedModel
	if err := json.Unmarshal(rec.Mesh, &stack); err != nil {
		s.log.Error("decoding stacked model failed, starting fresh", zap.Error(err))
		return &StackedModel{HomeID: homeID}
	}
	return &stack
}

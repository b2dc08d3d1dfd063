// Package store persists twin state and generated meshes. The SQLite store
// is the durable implementation; Memory is both the test double and the
// automatic fallback when the database cannot be opened or written. Mesh
// payloads are stored as opaque JSON and returned byte-for-byte, so vertex
// and face tuples and the metadata map survive a round trip verbatim.
package store

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// MeshRecord is one persisted mesh generation result.
type MeshRecord struct {
	ID        string          `json:"id"`
	HomeID    string          `json:"home_id"`
	Format    string          `json:"mesh_format"`
	Mesh      json.RawMessage `json:"mesh_data"`
	Source    json.RawMessage `json:"source_2d,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// HomeRecord is the persisted home-level state.
type HomeRecord struct {
	ID             string
	SecurityStatus string
}

// RoomRecord is one persisted room.
type RoomRecord struct {
	ID   string
	Name string
}

// SensorRecord is one persisted sensor with its last known status.
type SensorRecord struct {
	ID      string
	RoomID  string
	Type    string
	Status  string
	X, Y, Z float64
	IsAlert bool
}

// Store is the persistence contract used by the twin service.
type Store interface {
	// SaveMesh stores a mesh record under a new id.
	SaveMesh(rec *MeshRecord) error
	// Mesh loads one mesh record by id.
	Mesh(id string) (*MeshRecord, error)
	// LatestMesh loads the most recently created mesh for a home.
	LatestMesh(homeID string) (*MeshRecord, error)

	// LoadHome loads the home configuration, or ErrNotFound when the
	// store holds no rooms yet.
	LoadHome(homeID string) (HomeRecord, []RoomRecord, []SensorRecord, error)
	// SeedHome writes an initial configuration into an empty store.
	SeedHome(home HomeRecord, rooms []RoomRecord, sensors []SensorRecord) error
	// UpdateSensor persists a sensor's latest status.
	UpdateSensor(sensorID, status string, isAlert bool) error
	// UpdateSecurityStatus persists the home's overall status.
	UpdateSecurityStatus(homeID, status string) error

	Close() error
}

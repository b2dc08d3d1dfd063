package store

import (
	"sync"
	"time"
)

// Memory is an in-memory Store. It backs tests and serves as the runtime
// fallback when the database is unavailable.
type Memory struct {
	mu      sync.Mutex
	meshes  map[string]*MeshRecord
	home    HomeRecord
	rooms   []RoomRecord
	sensors map[string]SensorRecord
	seeded  bool
}

// Compile-time interface check.
var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		meshes:  make(map[string]*MeshRecord),
		sensors: make(map[string]SensorRecord),
	}
}

// SaveMesh stores a mesh record.
func (m *Memory) SaveMesh(rec *MeshRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	copied := *rec
	m.meshes[rec.ID] = &copied
	return nil
}

// Mesh loads one mesh record by id.
func (m *Memory) Mesh(id string) (*MeshRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.meshes[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

// LatestMesh loads the most recently created mesh for a home.
func (m *Memory) LatestMesh(homeID string) (*MeshRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *MeshRecord
	for _, rec := range m.meshes {
		if rec.HomeID != homeID {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

// LoadHome returns the seeded configuration or ErrNotFound.
func (m *Memory) LoadHome(homeID string) (HomeRecord, []RoomRecord, []SensorRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.seeded || m.home.ID != homeID {
		return HomeRecord{}, nil, nil, ErrNotFound
	}
	sensors := make([]SensorRecord, 0, len(m.sensors))
	for _, s := range m.sensors {
		sensors = append(sensors, s)
	}
	return m.home, append([]RoomRecord(nil), m.rooms...), sensors, nil
}

// SeedHome stores the initial configuration.
func (m *Memory) SeedHome(home HomeRecord, rooms []RoomRecord, sensors []SensorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.home = home
	m.rooms = append([]RoomRecord(nil), rooms...)
	m.sensors = make(map[string]SensorRecord, len(sensors))
	for _, s := range sensors {
		m.sensors[s.ID] = s
	}
	m.seeded = true
	return nil
}

// UpdateSensor persists a sensor's latest status.
func (m *Memory) UpdateSensor(sensorID, status string, isAlert bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sensors[sensorID]
	if !ok {
		// Sensors created at runtime are tracked from their first update.
		s = SensorRecord{ID: sensorID}
	}
	s.Status = status
	s.IsAlert = isAlert
	m.sensors[sensorID] = s
	return nil
}

// UpdateSecurityStatus persists the overall status.
func (m *Memory) UpdateSecurityStatus(homeID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.home.ID == homeID {
		m.home.SecurityStatus = status
	}
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

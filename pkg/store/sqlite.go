package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is the durable Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// Compile-time interface check.
var _ Store = (*SQLite)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS homes (
	id              TEXT PRIMARY KEY,
	security_status TEXT NOT NULL DEFAULT 'Safe'
);
CREATE TABLE IF NOT EXISTS rooms (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sensors (
	id       TEXT PRIMARY KEY,
	room_id  TEXT NOT NULL REFERENCES rooms(id),
	type     TEXT NOT NULL,
	status   TEXT NOT NULL,
	x        REAL NOT NULL DEFAULT 0,
	y        REAL NOT NULL DEFAULT 0,
	z        REAL NOT NULL DEFAULT 0,
	is_alert INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS meshes (
	id          TEXT PRIMARY KEY,
	home_id     TEXT NOT NULL,
	mesh_format TEXT NOT NULL,
	mesh_data   TEXT NOT NULL,
	source_2d   TEXT,
	params      TEXT,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meshes_home ON meshes(home_id, created_at);
`

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SaveMesh stores a mesh record.
func (s *SQLite) SaveMesh(rec *MeshRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO meshes (id, home_id, mesh_format, mesh_data, source_2d, params, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.HomeID, rec.Format, string(rec.Mesh), string(rec.Source), string(rec.Params), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store: save mesh %s: %w", rec.ID, err)
	}
	return nil
}

func scanMesh(row *sql.Row) (*MeshRecord, error) {
	var rec MeshRecord
	var meshData, source, params string
	err := row.Scan(&rec.ID, &rec.HomeID, &rec.Format, &meshData, &source, &params, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan mesh: %w", err)
	}
	rec.Mesh = []byte(meshData)
	if source != "" {
		rec.Source = []byte(source)
	}
	if params != "" {
		rec.Params = []byte(params)
	}
	return &rec, nil
}

// Mesh loads one mesh record by id.
func (s *SQLite) Mesh(id string) (*MeshRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, home_id, mesh_format, mesh_data, COALESCE(source_2d, ''), COALESCE(params, ''), created_at
		 FROM meshes WHERE id = ?`, id)
	return scanMesh(row)
}

// LatestMesh loads the most recently created mesh for a home.
func (s *SQLite) LatestMesh(homeID string) (*MeshRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, home_id, mesh_format, mesh_data, COALESCE(source_2d, ''), COALESCE(params, ''), created_at
		 FROM meshes WHERE home_id = ? ORDER BY created_at DESC LIMIT 1`, homeID)
	return scanMesh(row)
}

// LoadHome loads the stored configuration, or ErrNotFound when no rooms
// exist yet.
func (s *SQLite) LoadHome(homeID string) (HomeRecord, []RoomRecord, []SensorRecord, error) {
	var home HomeRecord
	err := s.db.QueryRow(`SELECT id, security_status FROM homes WHERE id = ?`, homeID).
		Scan(&home.ID, &home.SecurityStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return HomeRecord{}, nil, nil, ErrNotFound
	}
	if err != nil {
		return HomeRecord{}, nil, nil, fmt.Errorf("store: load home: %w", err)
	}

	roomRows, err := s.db.Query(`SELECT id, name FROM rooms`)
	if err != nil {
		return HomeRecord{}, nil, nil, fmt.Errorf("store: load rooms: %w", err)
	}
	defer roomRows.Close()

	var rooms []RoomRecord
	for roomRows.Next() {
		var r RoomRecord
		if err := roomRows.Scan(&r.ID, &r.Name); err != nil {
			return HomeRecord{}, nil, nil, fmt.Errorf("store: scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := roomRows.Err(); err != nil {
		return HomeRecord{}, nil, nil, err
	}
	if len(rooms) == 0 {
		return HomeRecord{}, nil, nil, ErrNotFound
	}

	sensorRows, err := s.db.Query(`SELECT id, room_id, type, status, x, y, z, is_alert FROM sensors`)
	if err != nil {
		return HomeRecord{}, nil, nil, fmt.Errorf("store: load sensors: %w", err)
	}
	defer sensorRows.Close()

	var sensors []SensorRecord
	for sensorRows.Next() {
		var sr SensorRecord
		if err := sensorRows.Scan(&sr.ID, &sr.RoomID, &sr.Type, &sr.Status, &sr.X, &sr.Y, &sr.Z, &sr.IsAlert); err != nil {
			return HomeRecord{}, nil, nil, fmt.Errorf("store: scan sensor: %w", err)
		}
		sensors = append(sensors, sr)
	}
	if err := sensorRows.Err(); err != nil {
		return HomeRecord{}, nil, nil, err
	}

	return home, rooms, sensors, nil
}

// SeedHome writes the initial configuration.
func (s *SQLite) SeedHome(home HomeRecord, rooms []RoomRecord, sensors []SensorRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: seed home: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO homes (id, security_status) VALUES (?, ?)`,
		home.ID, home.SecurityStatus,
	); err != nil {
		return fmt.Errorf("store: seed home row: %w", err)
	}
	for _, r := range rooms {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO rooms (id, name) VALUES (?, ?)`, r.ID, r.Name); err != nil {
			return fmt.Errorf("store: seed room %s: %w", r.ID, err)
		}
	}
	for _, sr := range sensors {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO sensors (id, room_id, type, status, x, y, z, is_alert)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sr.ID, sr.RoomID, sr.Type, sr.Status, sr.X, sr.Y, sr.Z, sr.IsAlert,
		); err != nil {
			return fmt.Errorf("store: seed sensor %s: %w", sr.ID, err)
		}
	}
	return tx.Commit()
}

// UpdateSensor persists a sensor's latest status.
func (s *SQLite) UpdateSensor(sensorID, status string, isAlert bool) error {
	_, err := s.db.Exec(
		`UPDATE sensors SET status = ?, is_alert = ? WHERE id = ?`,
		status, isAlert, sensorID,
	)
	if err != nil {
		return fmt.Errorf("store: update sensor %s: %w", sensorID, err)
	}
	return nil
}

// UpdateSecurityStatus persists the home's overall status.
func (s *SQLite) UpdateSecurityStatus(homeID, status string) error {
	_, err := s.db.Exec(`UPDATE homes SET security_status = ? WHERE id = ?`, status, homeID)
	if err != nil {
		return fmt.Errorf("store: update security status: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

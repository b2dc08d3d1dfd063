package store

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// both backends must satisfy the same contract.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(t.TempDir() + "/twin.db")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func seed() (HomeRecord, []RoomRecord, []SensorRecord) {
	return HomeRecord{ID: "main_home", SecurityStatus: "Safe"},
		[]RoomRecord{{ID: "room_a", Name: "Bedroom"}},
		[]SensorRecord{{ID: "motion_01", RoomID: "room_a", Type: "PIR", Status: "idle", X: 1.5, Y: 0.2}}
}

func TestLoadHomeEmpty(t *testing.T) {
	for name, st := range backends(t) {
		if _, _, _, err := st.LoadHome("main_home"); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: empty store err = %v, want ErrNotFound", name, err)
		}
	}
}

func TestSeedAndLoadHome(t *testing.T) {
	for name, st := range backends(t) {
		if err := st.SeedHome(seed()); err != nil {
			t.Fatalf("%s: seed: %v", name, err)
		}
		home, rooms, sensors, err := st.LoadHome("main_home")
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if home.SecurityStatus != "Safe" {
			t.Errorf("%s: status = %q", name, home.SecurityStatus)
		}
		if len(rooms) != 1 || rooms[0].Name != "Bedroom" {
			t.Errorf("%s: rooms = %+v", name, rooms)
		}
		if len(sensors) != 1 || sensors[0].X != 1.5 {
			t.Errorf("%s: sensors = %+v", name, sensors)
		}
	}
}

func TestUpdateSensorAndStatus(t *testing.T) {
	for name, st := range backends(t) {
		if err := st.SeedHome(seed()); err != nil {
			t.Fatalf("%s: seed: %v", name, err)
		}
		if err := st.UpdateSensor("motion_01", "detected", true); err != nil {
			t.Fatalf("%s: update sensor: %v", name, err)
		}
		if err := st.UpdateSecurityStatus("main_home", "WARNING"); err != nil {
			t.Fatalf("%s: update status: %v", name, err)
		}

		home, _, sensors, err := st.LoadHome("main_home")
		if err != nil {
			t.Fatalf("%s: reload: %v", name, err)
		}
		if home.SecurityStatus != "WARNING" {
			t.Errorf("%s: status = %q, want WARNING", name, home.SecurityStatus)
		}
		if sensors[0].Status != "detected" || !sensors[0].IsAlert {
			t.Errorf("%s: sensor not updated: %+v", name, sensors[0])
		}
	}
}

func TestMeshRoundTrip(t *testing.T) {
	payload := json.RawMessage(`{"floor":{"vertices":[[0,0,0]],"faces":[]}}`)
	for name, st := range backends(t) {
		rec := &MeshRecord{
			ID: "mesh-1", HomeID: "main_home", Format: "mesh_json_v2",
			Mesh: payload, Params: json.RawMessage(`{"wall_height":2.8}`),
		}
		if err := st.SaveMesh(rec); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}

		got, err := st.Mesh("mesh-1")
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if string(got.Mesh) != string(payload) {
			t.Errorf("%s: mesh payload changed: %s", name, got.Mesh)
		}
		if got.Format != "mesh_json_v2" {
			t.Errorf("%s: format = %q", name, got.Format)
		}

		if _, err := st.Mesh("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: missing mesh err = %v, want ErrNotFound", name, err)
		}
	}
}

func TestLatestMesh(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for name, st := range backends(t) {
		for i, id := range []string{"old", "mid", "new"} {
			rec := &MeshRecord{
				ID: id, HomeID: "main_home", Format: "mesh_json_v2",
				Mesh:      json.RawMessage(`{}`),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if err := st.SaveMesh(rec); err != nil {
				t.Fatalf("%s: save %s: %v", name, id, err)
			}
		}

		got, err := st.LatestMesh("main_home")
		if err != nil {
			t.Fatalf("%s: latest: %v", name, err)
		}
		if got.ID != "new" {
			t.Errorf("%s: latest = %q, want new", name, got.ID)
		}

		if _, err := st.LatestMesh("other_home"); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: other home err = %v, want ErrNotFound", name, err)
		}
	}
}

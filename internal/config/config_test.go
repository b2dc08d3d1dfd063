package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 5050 {
		t.Errorf("port = %d, want 5050", cfg.Server.Port)
	}
	if cfg.Mesh.WallHeight != 2.8 || cfg.Mesh.WallThickness != 0.12 {
		t.Errorf("mesh defaults = %+v", cfg.Mesh)
	}
	if cfg.Simulation.Interval != 2*time.Second {
		t.Errorf("interval = %v, want 2s", cfg.Simulation.Interval)
	}
	if cfg.Mesh.EnableCSG {
		t.Error("csg should be off by default")
	}
}

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
mesh:
  wall_height: 3.0
  enable_csg: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want file override 9090", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want default kept", cfg.Server.Host)
	}
	if cfg.Mesh.WallHeight != 3.0 || !cfg.Mesh.EnableCSG {
		t.Errorf("mesh = %+v", cfg.Mesh)
	}
	if cfg.Mesh.WallThickness != 0.12 {
		t.Errorf("thickness = %v, want default kept", cfg.Mesh.WallThickness)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

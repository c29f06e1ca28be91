package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.CostWeight != 0.05 {
		t.Errorf("CostWeight = %v, want default 0.05", cfg.Engine.CostWeight)
	}
	if cfg.Engine.ClubCap != 3 {
		t.Errorf("ClubCap = %d, want default 3", cfg.Engine.ClubCap)
	}
	if cfg.Engine.BaseOutgoingSlots != 5 {
		t.Errorf("BaseOutgoingSlots = %d, want default 5", cfg.Engine.BaseOutgoingSlots)
	}
}

func TestLoad_PartialFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[engine]\ncost_weight = 0.1\nclub_cap = 4\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.CostWeight != 0.1 {
		t.Errorf("CostWeight = %v, want 0.1 from file", cfg.Engine.CostWeight)
	}
	if cfg.Engine.ClubCap != 4 {
		t.Errorf("ClubCap = %d, want 4 from file", cfg.Engine.ClubCap)
	}
	if cfg.Engine.MaxSolutions != 3 {
		t.Errorf("MaxSolutions = %d, want default 3 preserved", cfg.Engine.MaxSolutions)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default preserved", cfg.Server.Addr)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed TOML must fail")
	}
}

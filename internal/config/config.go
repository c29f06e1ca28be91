// Package config loads the engine tunables from an optional TOML file.
// The score cost weight and the club cap are product knobs, not derived
// constants, so they live in configuration rather than code.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Engine EngineConfig `toml:"engine"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	Path string `toml:"path"`
}

type DataConfig struct {
	RawRoot string `toml:"raw_root"`
	BaseURL string `toml:"base_url"`
}

type EngineConfig struct {
	// CostWeight is the per-credit penalty subtracted from a candidate's
	// score: score = season + bonus - value*cost_weight.
	CostWeight float64 `toml:"cost_weight"`
	// ClubCap is the max players from one real club in the post-swap roster.
	ClubCap int `toml:"club_cap"`
	// MaxSolutions caps how many distinct solutions automatic mode returns.
	MaxSolutions int `toml:"max_solutions"`
	// BaseOutgoingSlots is the per-window release allowance before the
	// departed-player bonus slots.
	BaseOutgoingSlots int `toml:"base_outgoing_slots"`
	// LowConfidenceBelow flags picks whose play-time confidence is under
	// this threshold with an advisory warning.
	LowConfidenceBelow float64 `toml:"low_confidence_below"`
}

func Default() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr: ":8080",
			Path: "/mcp",
		},
		Data: DataConfig{
			RawRoot: "data/raw",
			BaseURL: "https://open.fantacalcio.dev/api",
		},
		Engine: EngineConfig{
			CostWeight:         0.05,
			ClubCap:            3,
			MaxSolutions:       3,
			BaseOutgoingSlots:  5,
			LowConfidenceBelow: 0.5,
		},
	}
}

// Load reads path if it exists and overlays it on the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

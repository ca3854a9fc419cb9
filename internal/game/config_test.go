package game

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if len(cfg.Heroes) != 2 || cfg.Heroes[0] != "quinn" || cfg.Heroes[1] != "vistra" {
		t.Errorf("Heroes = %v, want [quinn vistra]", cfg.Heroes)
	}
	if cfg.Scenario != "into-the-mountain" {
		t.Errorf("Scenario = %q, want into-the-mountain", cfg.Scenario)
	}
	if cfg.LogLevel != "info" || !cfg.Telemetry {
		t.Errorf("LogLevel, Telemetry = %q, %v, want info, true", cfg.LogLevel, cfg.Telemetry)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ASHARDALON_SEED", "99")
	t.Setenv("ASHARDALON_HEROES", "tarak,haskan,keyleth")
	t.Setenv("ASHARDALON_LISTEN_ADDR", ":9000")
	t.Setenv("ASHARDALON_HEADLESS", "true")
	t.Setenv("HONEYCOMB_ASHARDALON_DATASET", "ashardalon-dev")
	t.Setenv("ASHARDALON_TRACE_SAMPLE_RATIO", "0.5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	setup := cfg.Setup()
	if setup.Seed != 99 {
		t.Errorf("Seed = %d, want 99", setup.Seed)
	}
	if len(setup.HeroIDs) != 3 || setup.HeroIDs[2] != "keyleth" {
		t.Errorf("HeroIDs = %v, want [tarak haskan keyleth]", setup.HeroIDs)
	}
	if !cfg.Headless || cfg.ListenAddr != ":9000" {
		t.Errorf("Headless, ListenAddr = %v, %q", cfg.Headless, cfg.ListenAddr)
	}
	if cfg.HoneycombDataset != "ashardalon-dev" || cfg.TraceSampleRatio != 0.5 {
		t.Errorf("HoneycombDataset, TraceSampleRatio = %q, %v", cfg.HoneycombDataset, cfg.TraceSampleRatio)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Heroes: []string{"quinn"}}, false},
		{"no heroes", Config{}, true},
		{"too many heroes", Config{Heroes: []string{"a", "b", "c", "d", "e", "f"}}, true},
		{"resume without heroes", Config{Resume: "game-1"}, false},
		{"headless without server", Config{Heroes: []string{"quinn"}, Headless: true}, true},
		{"headless server", Config{Heroes: []string{"quinn"}, Headless: true, ListenAddr: ":8080"}, false},
		{"sample ratio above one", Config{Heroes: []string{"quinn"}, TraceSampleRatio: 2}, true},
		{"negative sample ratio", Config{Heroes: []string{"quinn"}, TraceSampleRatio: -0.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

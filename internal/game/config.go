package game

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/ashardalon/internal/engine"
)

// Config holds game configuration options, read from ASHARDALON_* environment variables.
type Config struct {
	// Seed for the game's random number generator. A seed of 0 means a random
	// seed will be generated.
	Seed uint32 `env:"ASHARDALON_SEED"`

	Heroes   []string `env:"ASHARDALON_HEROES" envSeparator:"," envDefault:"quinn,vistra"`
	Scenario string   `env:"ASHARDALON_SCENARIO" envDefault:"into-the-mountain"`

	// Resume continues a saved game by ID instead of dealing a new one.
	Resume string `env:"ASHARDALON_RESUME"`

	DBPath string `env:"ASHARDALON_DB_PATH" envDefault:"ashardalon.db"`

	// ListenAddr enables the websocket server when set, e.g. ":8080".
	ListenAddr string `env:"ASHARDALON_LISTEN_ADDR"`
	// AllowedOrigins lists browser origin patterns accepted by the websocket server.
	AllowedOrigins []string `env:"ASHARDALON_ALLOWED_ORIGINS" envSeparator:","`
	// Headless skips the terminal view. It requires ListenAddr.
	Headless bool `env:"ASHARDALON_HEADLESS"`

	LogLevel string `env:"ASHARDALON_LOG_LEVEL" envDefault:"info"`
	DevLog   bool   `env:"ASHARDALON_DEV_LOG"`
	// LogFile receives logs while the terminal view owns the screen.
	LogFile   string `env:"ASHARDALON_LOG_FILE" envDefault:"ashardalon.log"`
	Telemetry bool   `env:"ASHARDALON_TELEMETRY" envDefault:"true"`

	HoneycombAPIKey  string  `env:"HONEYCOMB_ASHARDALON_API_KEY"`
	HoneycombDataset string  `env:"HONEYCOMB_ASHARDALON_DATASET" envDefault:"ashardalon"`
	TraceSampleRatio float64 `env:"ASHARDALON_TRACE_SAMPLE_RATIO" envDefault:"1"`
}

// LoadConfig parses the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that do not depend on the catalog.
func (c Config) Validate() error {
	if c.Resume == "" && (len(c.Heroes) == 0 || len(c.Heroes) > engine.MaxHeroes) {
		return fmt.Errorf("ASHARDALON_HEROES must name 1 to %d heroes, got %d", engine.MaxHeroes, len(c.Heroes))
	}
	if c.Headless && c.ListenAddr == "" {
		return fmt.Errorf("ASHARDALON_HEADLESS requires ASHARDALON_LISTEN_ADDR")
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("ASHARDALON_TRACE_SAMPLE_RATIO must be within [0, 1], got %v", c.TraceSampleRatio)
	}
	return nil
}

// Setup returns the engine setup for a new game.
func (c Config) Setup() engine.Setup {
	return engine.Setup{
		HeroIDs:    append([]string(nil), c.Heroes...),
		ScenarioID: c.Scenario,
		Seed:       c.Seed,
	}
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Loop      LoopConfig      `toml:"loop"`
	Scripting ScriptingConfig `toml:"scripting"`
	Database  DatabaseConfig  `toml:"database"`
	Journal   JournalConfig   `toml:"journal"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	ID        int    `toml:"id"`
	StartTime int64  // set at boot, not from config
}

type LoopConfig struct {
	TickRate      time.Duration `toml:"tick_rate"`
	InputPollRate time.Duration `toml:"input_poll_rate"` // 0 = only poll input on full frames
	LayoutPath    string        `toml:"layout_path"`
	MaxFrames     uint64        `toml:"max_frames"` // 0 = run until signalled
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DatabaseConfig configures the optional PostgreSQL journal. An empty DSN
// disables persistence entirely.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type JournalConfig struct {
	FlushEvery int `toml:"flush_every"` // frames between hook journal flushes
	StatsEvery int `toml:"stats_every"` // frames per frame_stats row
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := defaults()
	cfg.Server.StartTime = time.Now().Unix()
	return cfg
}

func (c *Config) validate() error {
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	}
	if c.Loop.InputPollRate < 0 {
		return fmt.Errorf("loop.input_poll_rate must not be negative, got %s", c.Loop.InputPollRate)
	}
	if c.Journal.FlushEvery <= 0 || c.Journal.StatsEvery <= 0 {
		return fmt.Errorf("journal.flush_every and journal.stats_every must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "loopd",
			ID:   1,
		},
		Loop: LoopConfig{
			TickRate:   200 * time.Millisecond,
			LayoutPath: "data/yaml/phase_layout.yaml",
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Journal: JournalConfig{
			FlushEvery: 25,   // 25 frames × 200ms = 5 seconds
			StatsEvery: 1500, // 1500 frames × 200ms = 5 minutes
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type PlayerConfig struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
}

type DatabaseConfig struct {
	// Path is the sqlite database file; empty disables recording.
	Path string `json:"path"`
	// Writer selects the persistence discipline: "bulk", "streaming" or
	// "none".
	Writer string `json:"writer"`
}

type Config struct {
	Players  []PlayerConfig `json:"players"`
	Rounds   int            `json:"rounds"`
	Seed     int64          `json:"seed"`
	Database DatabaseConfig `json:"database"`
	// RolePolicy is "strict" or "legacy"; empty means strict.
	RolePolicy string `json:"role_policy"`
}

const defaultStrategy = "lowest"

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyDefaults fills the fields a minimal config may omit.
func (c *Config) ApplyDefaults() {
	if c.Rounds == 0 {
		c.Rounds = 1
	}
	if c.Database.Writer == "" {
		if c.Database.Path == "" {
			c.Database.Writer = "none"
		} else {
			c.Database.Writer = "bulk"
		}
	}
	for i := range c.Players {
		if c.Players[i].Strategy == "" {
			c.Players[i].Strategy = defaultStrategy
		}
	}
}

// Validate rejects configurations no game can be driven from.
func (c *Config) Validate() error {
	if len(c.Players) < 2 {
		return fmt.Errorf("config needs at least 2 players, got %d", len(c.Players))
	}
	names := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("every player needs a name")
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate player name %q", p.Name)
		}
		names[p.Name] = true
	}
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	switch c.Database.Writer {
	case "bulk", "streaming", "none":
	default:
		return fmt.Errorf("unknown database writer %q", c.Database.Writer)
	}
	switch c.RolePolicy {
	case "", "strict", "legacy":
	default:
		return fmt.Errorf("unknown role policy %q", c.RolePolicy)
	}
	return nil
}

package config

import "time"

// Config holds runtime settings for the ShelfKeeper CLI.
//
// Fields:
//   - DatabasePath: location of the local SQLite file (":memory:" for tests).
//   - BackendEndpointAddr: base URL of the sync backend; empty disables sync.
//   - SyncInterval: how often the background loop runs a sync cycle.
//   - TombstoneRetention: how long acknowledged deletions are kept before
//     compaction may purge them.
//   - SyncMaxRetries: retry budget per network call during a sync cycle.
//   - SeedSampleData: whether to insert starter records into empty kinds.
type Config struct {
	DatabasePath        string
	BackendEndpointAddr string
	SyncInterval        time.Duration
	TombstoneRetention  time.Duration
	SyncMaxRetries      uint64
	SeedSampleData      bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "shelfkeeper.db"
	c.BackendEndpointAddr = ""
	c.SyncInterval = 5 * time.Minute
	c.TombstoneRetention = 30 * 24 * time.Hour
	c.SyncMaxRetries = 5
	c.SeedSampleData = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

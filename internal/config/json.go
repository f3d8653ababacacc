package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/akarpovs/shelfkeeper/internal/flagx"
	"github.com/akarpovs/shelfkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "5m" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabasePath        string         `json:"database_path"`
	BackendEndpointAddr string         `json:"backend_endpoint_addr"`
	SyncInterval        timex.Duration `json:"sync_interval"`
	TombstoneRetention  timex.Duration `json:"tombstone_retention"`
	SyncMaxRetries      uint64         `json:"sync_max_retries"`
	SeedSampleData      *bool          `json:"seed_sample_data"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies set fields into the provided Config; zero values keep defaults.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.BackendEndpointAddr != "" {
		cfg.BackendEndpointAddr = jc.BackendEndpointAddr
	}
	if jc.SyncInterval.Duration != 0 {
		cfg.SyncInterval = time.Duration(jc.SyncInterval.Duration)
	}
	if jc.TombstoneRetention.Duration != 0 {
		cfg.TombstoneRetention = time.Duration(jc.TombstoneRetention.Duration)
	}
	if jc.SyncMaxRetries != 0 {
		cfg.SyncMaxRetries = jc.SyncMaxRetries
	}
	if jc.SeedSampleData != nil {
		cfg.SeedSampleData = *jc.SeedSampleData
	}
}

package config

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for compositing, caching and playback.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Seek cache tuning. CheckpointInterval is the spacing K, in frame
	// indices, at which full-canvas snapshots are retained; smaller K
	// means more memory and faster backward seeks. PinnedSnapshotCap
	// bounds explicitly pinned snapshots.
	CheckpointInterval int `json:"checkpoint_interval"`
	PinnedSnapshotCap  int `json:"pinned_snapshot_cap"`

	// Playback timing. Zero-delay frames are clamped to MinFrameDelayMs
	// during playback only; exports keep raw delays. CatchUpFactor caps
	// the carried timing remainder after a stall, in frame intervals.
	MinFrameDelayMs int `json:"min_frame_delay_ms"`
	CatchUpFactor   int `json:"catch_up_factor"`

	// Export loop count, image/gif semantics (0 loops forever).
	LoopCount int `json:"loop_count"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		CheckpointInterval: 10,
		PinnedSnapshotCap:  16,
		MinFrameDelayMs:    20,
		CatchUpFactor:      5,
		LoopCount:          0,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.CheckpointInterval < 1 {
		c.CheckpointInterval = 10
	}
	if c.PinnedSnapshotCap < 1 {
		c.PinnedSnapshotCap = 16
	}
	if c.MinFrameDelayMs < 1 || c.MinFrameDelayMs > 100 {
		c.MinFrameDelayMs = 20
	}
	if c.CatchUpFactor < 1 {
		c.CatchUpFactor = 5
	}
	if c.LoopCount < 0 {
		c.LoopCount = 0
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

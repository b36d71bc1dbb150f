// Package drowsiness implements the temporal drowsiness decision: it
// smooths per-frame eye aspect ratio samples over a bounded window,
// counts consecutive low readings, and classifies each frame into an
// alert state with a debounced alarm trigger.
package drowsiness

// Config holds all tunable parameters for the drowsiness decision.
// It is read at startup and never mutated afterwards.
type Config struct {
	// EARThreshold is the smoothed eye aspect ratio below which eyes
	// are considered closed. A value exactly at the threshold counts
	// as open.
	EARThreshold float64

	// ConsecFrames is how many consecutive below-threshold frames are
	// required before declaring drowsiness.
	ConsecFrames int

	// WindowSize is the capacity of the EAR smoothing window.
	WindowSize int

	// AlarmEnabled controls whether alarm-trigger events are acted on.
	// The state machine still reports them; the dispatcher checks this.
	AlarmEnabled bool
}

// DefaultConfig returns the recommended configuration for webcam
// monitoring at ~30 FPS.
func DefaultConfig() Config {
	return Config{
		EARThreshold: 0.25,
		ConsecFrames: 20, // ~0.7s of sustained closure at 30 FPS
		WindowSize:   10,
		AlarmEnabled: true,
	}
}

// StrictConfig returns a configuration that alarms earlier, for
// high-risk settings where false positives are acceptable.
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.EARThreshold = 0.27
	cfg.ConsecFrames = 12
	return cfg
}

// RelaxedConfig returns a configuration that tolerates longer blinks,
// for drivers with naturally narrow eye openings.
func RelaxedConfig() Config {
	cfg := DefaultConfig()
	cfg.EARThreshold = 0.21
	cfg.ConsecFrames = 30
	return cfg
}

// Validate checks that the config values are usable.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.EARThreshold <= 0 || c.EARThreshold >= 1 {
		errors = append(errors, "ear threshold must be between 0 and 1")
	}
	if c.ConsecFrames < 1 {
		errors = append(errors, "consecutive frame threshold must be at least 1")
	}
	if c.WindowSize < 1 {
		errors = append(errors, "window size must be at least 1")
	}

	return errors
}

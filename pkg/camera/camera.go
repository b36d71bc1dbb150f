// Package camera provides frame acquisition for the monitoring loop.
package camera

// Source produces one JPEG frame per call.
type Source interface {
	// Capture grabs the next frame as JPEG bytes.
	Capture() ([]byte, error)

	// Close releases the device.
	Close() error
}

// Settings holds camera capture configuration.
type Settings struct {
	DeviceID int // Capture device index
	Width    int // Capture width in pixels
	Height   int // Capture height in pixels
	FPS      int // Target frames per second
	Quality  int // JPEG quality 1-100
}

// DefaultSettings returns sensible defaults for in-vehicle monitoring.
// 640x480 keeps landmark inference fast enough for real time.
func DefaultSettings() Settings {
	return Settings{
		DeviceID: 0,
		Width:    640,
		Height:   480,
		FPS:      30,
		Quality:  85,
	}
}

// Validate checks if the settings are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (s *Settings) Validate() []string {
	var errors []string

	if s.DeviceID < 0 {
		errors = append(errors, "device id must not be negative")
	}
	if s.Width < 160 || s.Height < 120 {
		errors = append(errors, "resolution must be at least 160x120")
	}
	if s.FPS < 1 || s.FPS > 120 {
		errors = append(errors, "fps must be between 1 and 120")
	}
	if s.Quality < 1 || s.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}

package drowsiness

import "fmt"

// State classifies the driver on a processed frame.
type State int

const (
	// StateNoFace means the detector reported no face this frame.
	StateNoFace State = iota
	// StateAlert means eyes are open (smoothed EAR at or above threshold).
	StateAlert
	// StateClosing means eyes are below threshold but the streak has
	// not yet reached the consecutive-frame threshold.
	StateClosing
	// StateAlarm means sustained closure: drowsiness declared.
	StateAlarm
)

// String returns a short name for logging.
func (s State) String() string {
	switch s {
	case StateNoFace:
		return "no_face"
	case StateAlert:
		return "alert"
	case StateClosing:
		return "closing"
	case StateAlarm:
		return "alarm"
	default:
		return "unknown"
	}
}

// Status is the per-frame output of the state machine.
type Status struct {
	State State

	// EAR is the smoothed eye aspect ratio for this frame.
	// Zero when State is StateNoFace.
	EAR float64

	// Frames is the current consecutive below-threshold streak.
	Frames int

	// TriggerAlarm is true on exactly the frame that starts an alarm
	// episode. It stays false while the episode is sustained, so the
	// alarm side effect fires at most once per episode.
	TriggerAlarm bool

	// Text is the user-facing status line for this frame.
	Text string
}

// Machine is the drowsiness state machine for one monitoring session.
// It owns the smoothing window, the consecutive-frame counter and the
// alarm debounce flag.
//
// A Machine is confined to a single monitoring loop and is not safe
// for concurrent use. Observe and ObserveNoFace are pure state updates:
// they never perform I/O, so the caller stays in control of when and
// how the alarm side effect runs.
type Machine struct {
	cfg     Config
	window  *Window
	frames  int
	alarmOn bool
}

// NewMachine creates a state machine with the given configuration.
func NewMachine(cfg Config) *Machine {
	return &Machine{
		cfg:    cfg,
		window: NewWindow(cfg.WindowSize),
	}
}

// ObserveNoFace records a frame on which no face was detected. It
// resets the streak counter, the alarm flag and the smoothing window,
// so a later re-detection starts a fresh episode.
func (m *Machine) ObserveNoFace() Status {
	m.frames = 0
	m.alarmOn = false
	m.window.Reset()

	return Status{
		State: StateNoFace,
		Text:  "No face detected",
	}
}

// Observe ingests one per-frame EAR sample (already averaged over both
// eyes), smooths it over the window and returns the classification for
// this frame.
func (m *Machine) Observe(sample float64) Status {
	return m.classify(m.window.Push(sample))
}

// classify is the transition function on a smoothed EAR value.
//
// A value exactly at the threshold counts as alert.
func (m *Machine) classify(avg float64) Status {
	if avg >= m.cfg.EARThreshold {
		m.frames = 0
		m.alarmOn = false
		return Status{
			State: StateAlert,
			EAR:   avg,
			Text:  "Driver Alert",
		}
	}

	m.frames++

	if m.frames < m.cfg.ConsecFrames {
		return Status{
			State:  StateClosing,
			EAR:    avg,
			Frames: m.frames,
			Text:   fmt.Sprintf("Eyes closed: %d/%d", m.frames, m.cfg.ConsecFrames),
		}
	}

	trigger := !m.alarmOn
	m.alarmOn = true

	return Status{
		State:        StateAlarm,
		EAR:          avg,
		Frames:       m.frames,
		TriggerAlarm: trigger,
		Text:         "DROWSINESS ALERT!",
	}
}

// Config returns the machine's configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

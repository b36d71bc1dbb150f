package drowsiness

import (
	"math"
	"testing"
)

// observeN feeds the same sample n times and returns the last status
// plus the number of frames that requested an alarm trigger.
func observeN(m *Machine, sample float64, n int) (Status, int) {
	var st Status
	triggers := 0
	for i := 0; i < n; i++ {
		st = m.Observe(sample)
		if st.TriggerAlarm {
			triggers++
		}
	}
	return st, triggers
}

func TestMachine_StaysAlertOnOpenEyes(t *testing.T) {
	m := NewMachine(DefaultConfig())

	st, triggers := observeN(m, 0.30, 100)

	if st.State != StateAlert {
		t.Errorf("state = %v, want alert", st.State)
	}
	if st.Frames != 0 {
		t.Errorf("frames = %d, want 0", st.Frames)
	}
	if triggers != 0 {
		t.Errorf("triggers = %d, want 0", triggers)
	}
}

func TestMachine_ThresholdCrossing(t *testing.T) {
	m := NewMachine(DefaultConfig())

	// 19 consecutive low frames: still closing, no trigger.
	st, triggers := observeN(m, 0.20, 19)
	if st.State != StateClosing {
		t.Errorf("state after 19 frames = %v, want closing", st.State)
	}
	if st.Frames != 19 {
		t.Errorf("frames = %d, want 19", st.Frames)
	}
	if triggers != 0 {
		t.Errorf("triggers before threshold = %d, want 0", triggers)
	}
	if st.Text != "Eyes closed: 19/20" {
		t.Errorf("text = %q", st.Text)
	}

	// The 20th frame declares drowsiness and triggers exactly once.
	st = m.Observe(0.20)
	if st.State != StateAlarm {
		t.Errorf("state on 20th frame = %v, want alarm", st.State)
	}
	if !st.TriggerAlarm {
		t.Error("expected TriggerAlarm on the frame entering alarm state")
	}
}

func TestMachine_AlarmDebounce(t *testing.T) {
	m := NewMachine(DefaultConfig())

	// Exercise the transition function on smoothed values directly so
	// the recovery frame is not dragged down by window history.
	triggers := 0
	for i := 0; i < 50; i++ {
		if m.classify(0.20).TriggerAlarm {
			triggers++
		}
	}
	if triggers != 1 {
		t.Fatalf("triggers over sustained episode = %d, want 1", triggers)
	}

	// Recovery clears the episode.
	st := m.classify(0.30)
	if st.State != StateAlert {
		t.Fatalf("state after recovery = %v, want alert", st.State)
	}

	// A fresh qualifying streak re-triggers exactly once.
	triggers = 0
	for i := 0; i < 40; i++ {
		if m.classify(0.20).TriggerAlarm {
			triggers++
		}
	}
	if triggers != 1 {
		t.Errorf("triggers after recovery = %d, want 1", triggers)
	}
}

func TestMachine_NoFaceResetsEverything(t *testing.T) {
	m := NewMachine(DefaultConfig())

	// Drive into alarm state.
	st, _ := observeN(m, 0.10, 25)
	if st.State != StateAlarm {
		t.Fatalf("setup: state = %v, want alarm", st.State)
	}

	st = m.ObserveNoFace()
	if st.State != StateNoFace {
		t.Errorf("state = %v, want no_face", st.State)
	}
	if st.Frames != 0 {
		t.Errorf("frames = %d, want 0", st.Frames)
	}
	if st.Text != "No face detected" {
		t.Errorf("text = %q", st.Text)
	}

	// The smoothing window was cleared too: a single open-eye sample
	// is not dragged down by the pre-gap low history.
	st = m.Observe(0.30)
	if st.State != StateAlert {
		t.Errorf("state after re-detection = %v, want alert", st.State)
	}
	if math.Abs(st.EAR-0.30) > 1e-9 {
		t.Errorf("smoothed EAR after reset = %v, want 0.30", st.EAR)
	}

	// And the alarm re-arms: a new sustained episode triggers again.
	_, triggers := observeN(m, 0.10, 30)
	if triggers != 1 {
		t.Errorf("triggers after face-loss reset = %d, want 1", triggers)
	}
}

func TestMachine_ExactThresholdIsAlert(t *testing.T) {
	m := NewMachine(DefaultConfig())

	st := m.Observe(0.25)

	if st.State != StateAlert {
		t.Errorf("state at exact threshold = %v, want alert", st.State)
	}
	if st.Frames != 0 {
		t.Errorf("frames = %d, want 0", st.Frames)
	}
}

func TestMachine_SmoothingDelaysClosing(t *testing.T) {
	m := NewMachine(DefaultConfig())

	// Fill the window with open-eye history.
	observeN(m, 0.35, 10)

	// A single low sample is averaged against the history: the mean
	// (9*0.35 + 0.10)/10 = 0.325 stays above threshold.
	st := m.Observe(0.10)
	if st.State != StateAlert {
		t.Errorf("state after one low sample = %v, want alert", st.State)
	}

	// Sustained low samples eventually pull the mean under.
	st, _ = observeN(m, 0.10, 10)
	if st.State == StateAlert {
		t.Error("expected the streak to begin once the mean dropped")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"strict preset", func(c *Config) { *c = StrictConfig() }, false},
		{"relaxed preset", func(c *Config) { *c = RelaxedConfig() }, false},
		{"zero threshold", func(c *Config) { c.EARThreshold = 0 }, true},
		{"threshold too high", func(c *Config) { c.EARThreshold = 1.5 }, true},
		{"zero consec frames", func(c *Config) { c.ConsecFrames = 0 }, true},
		{"zero window", func(c *Config) { c.WindowSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			errs := cfg.Validate()
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected validation errors, got none")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("unexpected validation errors: %v", errs)
			}
		})
	}
}

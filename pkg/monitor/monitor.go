// Package monitor runs the per-frame drowsiness monitoring session:
// capture, landmark detection, EAR estimation, state machine update,
// alarm dispatch and rendering, in strict frame order.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vigil-labs/go-vigil/internal/log"
	"github.com/vigil-labs/go-vigil/pkg/alarm"
	"github.com/vigil-labs/go-vigil/pkg/drowsiness"
	"github.com/vigil-labs/go-vigil/pkg/ear"
	"github.com/vigil-labs/go-vigil/pkg/landmarks"
)

// Source produces one JPEG frame per call. Capture failure is fatal to
// the session.
type Source interface {
	Capture() ([]byte, error)
}

// StatusSink receives per-frame results, e.g. for the web dashboard.
// Implementations must not block.
type StatusSink interface {
	PublishStatus(Update)
	PublishFrame(jpeg []byte)
}

// Update is the per-frame record published to status sinks.
type Update struct {
	SessionID string  `json:"session_id"`
	State     string  `json:"state"`
	Text      string  `json:"text"`
	EAR       float64 `json:"ear"`
	Frames    int     `json:"frames"`
	Threshold float64 `json:"threshold"`
	Processed uint64  `json:"processed"`
	Dropped   uint64  `json:"dropped"`
	Alarms    uint64  `json:"alarms"`
}

// Stats are the session counters.
type Stats struct {
	Processed uint64 // Frames that reached the state machine
	Dropped   uint64 // Frames skipped on detector/geometry failure
	Alarms    uint64 // Alarm episodes triggered
}

// Session is one monitoring session. It owns the state machine and
// processes frames one at a time in strict sequence; it is not safe to
// run the same session from two goroutines.
type Session struct {
	id       uuid.UUID
	source   Source
	provider landmarks.Provider
	machine  *drowsiness.Machine
	alarms   *alarm.Dispatcher
	renderer Renderer
	sink     StatusSink

	mu    sync.Mutex
	stats Stats
}

// New creates a monitoring session.
func New(cfg drowsiness.Config, source Source, provider landmarks.Provider, alarms *alarm.Dispatcher) *Session {
	return &Session{
		id:       uuid.New(),
		source:   source,
		provider: provider,
		machine:  drowsiness.NewMachine(cfg),
		alarms:   alarms,
		renderer: NopRenderer{},
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// SetRenderer sets the frame renderer. A nil renderer disables output.
func (s *Session) SetRenderer(r Renderer) {
	if r == nil {
		r = NopRenderer{}
	}
	s.renderer = r
}

// SetStatusSink sets the dashboard sink.
func (s *Session) SetStatusSink(sink StatusSink) {
	s.sink = sink
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ErrQuit is returned by a renderer to end the session from the UI.
var ErrQuit = errors.New("monitor: quit requested")

// Run processes frames until ctx is cancelled, the renderer requests
// quit, or the frame source fails. Source failure is the only error
// return: it is fatal to the session, per the upstream-failure policy.
func (s *Session) Run(ctx context.Context) error {
	cfg := s.machine.Config()
	log.Info("monitoring session started",
		"session", s.id.String(),
		"ear_threshold", cfg.EARThreshold,
		"consec_frames", cfg.ConsecFrames,
		"window", cfg.WindowSize,
		"alarm_enabled", cfg.AlarmEnabled,
	)

	for {
		select {
		case <-ctx.Done():
			s.logStop()
			return nil
		default:
		}

		frame, err := s.source.Capture()
		if err != nil {
			s.logStop()
			return fmt.Errorf("capture frame: %w", err)
		}

		if err := s.processFrame(ctx, frame); err != nil {
			if errors.Is(err, ErrQuit) {
				s.logStop()
				return nil
			}
			return err
		}
	}
}

// processFrame handles exactly one frame.
func (s *Session) processFrame(ctx context.Context, frame []byte) error {
	faces, err := s.provider.Detect(frame)
	if err != nil {
		// Detector failure is neither a sample nor a no-face result:
		// the frame is dropped and the machine left untouched.
		s.mu.Lock()
		s.stats.Dropped++
		s.mu.Unlock()
		log.Debug("frame dropped: detector error", "session", s.id.String(), "error", err)
		return nil
	}

	var st drowsiness.Status
	var best *landmarks.Face

	if len(faces) == 0 {
		st = s.machine.ObserveNoFace()
	} else {
		best = landmarks.SelectBest(faces)
		sample, ok := s.eyeSample(best)
		if !ok {
			// Both eye contours degenerate: treat like a detector
			// failure and drop the frame.
			s.mu.Lock()
			s.stats.Dropped++
			s.mu.Unlock()
			log.Debug("frame dropped: degenerate eye contours", "session", s.id.String())
			return nil
		}
		st = s.machine.Observe(sample)
	}

	s.mu.Lock()
	s.stats.Processed++
	if st.TriggerAlarm {
		s.stats.Alarms++
	}
	stats := s.stats
	s.mu.Unlock()

	if st.TriggerAlarm {
		log.Warn("drowsiness detected", "session", s.id.String(), "ear", st.EAR)
		s.alarms.Trigger(ctx)
	}

	if err := s.renderer.Render(frame, st, best); err != nil {
		return err
	}

	if s.sink != nil {
		s.sink.PublishStatus(Update{
			SessionID: s.id.String(),
			State:     st.State.String(),
			Text:      st.Text,
			EAR:       st.EAR,
			Frames:    st.Frames,
			Threshold: s.machine.Config().EARThreshold,
			Processed: stats.Processed,
			Dropped:   stats.Dropped,
			Alarms:    stats.Alarms,
		})
		s.sink.PublishFrame(frame)
	}

	return nil
}

// eyeSample computes the per-frame EAR sample for a face, averaging
// both eyes. A degenerate eye is skipped; the sample comes from the
// other eye alone. Returns false when neither eye is usable.
func (s *Session) eyeSample(face *landmarks.Face) (float64, bool) {
	left, errL := ear.Compute(face.LeftEye())
	right, errR := ear.Compute(face.RightEye())

	switch {
	case errL == nil && errR == nil:
		return ear.Average(left, right), true
	case errL == nil:
		return left, true
	case errR == nil:
		return right, true
	default:
		return 0, false
	}
}

func (s *Session) logStop() {
	st := s.Stats()
	log.Info("monitoring session stopped",
		"session", s.id.String(),
		"processed", st.Processed,
		"dropped", st.Dropped,
		"alarms", st.Alarms,
	)
}

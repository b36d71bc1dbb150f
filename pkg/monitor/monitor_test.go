package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/vigil-labs/go-vigil/pkg/alarm"
	"github.com/vigil-labs/go-vigil/pkg/drowsiness"
	"github.com/vigil-labs/go-vigil/pkg/ear"
	"github.com/vigil-labs/go-vigil/pkg/landmarks"
)

// scriptedSource hands out a fixed number of frames, then fails.
type scriptedSource struct {
	frames int
	served int
}

func (s *scriptedSource) Capture() ([]byte, error) {
	if s.served >= s.frames {
		return nil, errors.New("camera disconnected")
	}
	s.served++
	return []byte{0xff, 0xd8}, nil
}

// recordingSink captures published updates.
type recordingSink struct {
	updates []Update
	frames  int
}

func (r *recordingSink) PublishStatus(u Update) { r.updates = append(r.updates, u) }
func (r *recordingSink) PublishFrame([]byte)    { r.frames++ }

// faceFrames builds a script of n identical face detections.
func faceFrames(n int, ratio float64) []landmarks.MockResult {
	res := make([]landmarks.MockResult, n)
	for i := range res {
		res[i] = landmarks.MockResult{Faces: []landmarks.Face{landmarks.FaceWithEAR(ratio)}}
	}
	return res
}

func newSession(cfg drowsiness.Config, frames int, script []landmarks.MockResult, player *alarm.MockPlayer) (*Session, *recordingSink) {
	src := &scriptedSource{frames: frames}
	provider := landmarks.NewMock(script...)
	sess := New(cfg, src, provider, alarm.NewDispatcher(player, cfg.AlarmEnabled))
	sink := &recordingSink{}
	sess.SetStatusSink(sink)
	return sess, sink
}

func TestSession_AlertOnOpenEyes(t *testing.T) {
	player := &alarm.MockPlayer{}
	sess, sink := newSession(drowsiness.DefaultConfig(), 30, faceFrames(1, 0.30), player)

	err := sess.Run(context.Background())
	if err == nil {
		t.Fatal("expected source failure to end the session with an error")
	}

	if got := sess.Stats().Processed; got != 30 {
		t.Errorf("processed = %d, want 30", got)
	}
	if got := sess.Stats().Alarms; got != 0 {
		t.Errorf("alarms = %d, want 0", got)
	}
	if player.Plays() != 0 {
		t.Errorf("plays = %d, want 0", player.Plays())
	}

	last := sink.updates[len(sink.updates)-1]
	if last.State != "alert" || last.Text != "Driver Alert" {
		t.Errorf("last update = %+v", last)
	}
	if sink.frames != 30 {
		t.Errorf("published frames = %d, want 30", sink.frames)
	}
}

func TestSession_SustainedClosureTriggersOneAlarm(t *testing.T) {
	player := &alarm.MockPlayer{}
	sess, sink := newSession(drowsiness.DefaultConfig(), 60, faceFrames(1, 0.10), player)

	sess.Run(context.Background())

	if got := sess.Stats().Alarms; got != 1 {
		t.Fatalf("alarms = %d, want 1 for a sustained episode", got)
	}

	// The 19th low frame is still closing; the 20th declares the alarm.
	if st := sink.updates[18]; st.State != "closing" || st.Frames != 19 {
		t.Errorf("frame 19 = %+v, want closing 19", st)
	}
	if st := sink.updates[19]; st.State != "alarm" {
		t.Errorf("frame 20 = %+v, want alarm", st)
	}
	if st := sink.updates[59]; st.State != "alarm" {
		t.Errorf("frame 60 = %+v, want alarm held", st)
	}
}

func TestSession_FaceLossResetsAndRearms(t *testing.T) {
	script := faceFrames(25, 0.10)
	script = append(script, landmarks.MockResult{}) // no face
	script = append(script, faceFrames(25, 0.10)...)

	player := &alarm.MockPlayer{}
	sess, sink := newSession(drowsiness.DefaultConfig(), len(script), script, player)

	sess.Run(context.Background())

	if got := sess.Stats().Alarms; got != 2 {
		t.Fatalf("alarms = %d, want 2 (episode on each side of the gap)", got)
	}

	if st := sink.updates[25]; st.State != "no_face" || st.Frames != 0 {
		t.Errorf("gap frame = %+v, want no_face with zero streak", st)
	}
	// First frame after the gap starts a fresh streak.
	if st := sink.updates[26]; st.Frames != 1 {
		t.Errorf("frame after gap = %+v, want streak 1", st)
	}
}

func TestSession_DetectorErrorDropsFrame(t *testing.T) {
	script := []landmarks.MockResult{
		{Faces: []landmarks.Face{landmarks.FaceWithEAR(0.10)}},
		{Err: errors.New("inference failed")},
		{Faces: []landmarks.Face{landmarks.FaceWithEAR(0.10)}},
	}

	player := &alarm.MockPlayer{}
	sess, sink := newSession(drowsiness.DefaultConfig(), 3, script, player)

	sess.Run(context.Background())

	st := sess.Stats()
	if st.Processed != 2 || st.Dropped != 1 {
		t.Errorf("stats = %+v, want 2 processed, 1 dropped", st)
	}

	// The dropped frame must not touch the streak: frame 3 continues
	// from frame 1 rather than restarting.
	if len(sink.updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(sink.updates))
	}
	if sink.updates[1].Frames != 2 {
		t.Errorf("streak after drop = %d, want 2", sink.updates[1].Frames)
	}
}

func TestSession_DegenerateEyesSkipped(t *testing.T) {
	// One eye collapsed to a point: sample comes from the other eye.
	oneBad := landmarks.FaceWithEAR(0.30)
	for i := landmarks.LeftEyeStart; i < landmarks.LeftEyeEnd; i++ {
		oneBad.Points[i] = ear.Point{X: 50, Y: 50}
	}

	// Both eyes collapsed: frame dropped.
	bothBad := oneBad
	for i := landmarks.RightEyeStart; i < landmarks.RightEyeEnd; i++ {
		bothBad.Points[i] = ear.Point{X: 50, Y: 50}
	}

	script := []landmarks.MockResult{
		{Faces: []landmarks.Face{oneBad}},
		{Faces: []landmarks.Face{bothBad}},
	}

	player := &alarm.MockPlayer{}
	sess, sink := newSession(drowsiness.DefaultConfig(), 2, script, player)

	sess.Run(context.Background())

	st := sess.Stats()
	if st.Processed != 1 || st.Dropped != 1 {
		t.Errorf("stats = %+v, want 1 processed, 1 dropped", st)
	}
	if len(sink.updates) != 1 || sink.updates[0].State != "alert" {
		t.Errorf("updates = %+v, want one alert from the good eye", sink.updates)
	}
}

func TestSession_ContextCancelStopsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	player := &alarm.MockPlayer{}
	sess, _ := newSession(drowsiness.DefaultConfig(), 1000, faceFrames(1, 0.30), player)

	if err := sess.Run(ctx); err != nil {
		t.Fatalf("cancelled run returned error: %v", err)
	}
	if got := sess.Stats().Processed; got != 0 {
		t.Errorf("processed = %d, want 0 after immediate cancel", got)
	}
}

func TestSession_AlarmDisabledStillClassifies(t *testing.T) {
	cfg := drowsiness.DefaultConfig()
	cfg.AlarmEnabled = false

	player := &alarm.MockPlayer{}
	sess, sink := newSession(cfg, 30, faceFrames(1, 0.10), player)

	sess.Run(context.Background())

	if got := sess.Stats().Alarms; got != 1 {
		t.Errorf("alarm episodes = %d, want 1 (classification unaffected)", got)
	}
	if player.Plays() != 0 {
		t.Errorf("plays = %d, want 0 with alarm disabled", player.Plays())
	}
	if st := sink.updates[len(sink.updates)-1]; st.State != "alarm" {
		t.Errorf("final state = %q, want alarm", st.State)
	}
}

// Package alarm realizes the alarm-trigger event emitted by the
// drowsiness state machine: best-effort, asynchronous audio playback
// that never blocks or aborts the frame-processing loop.
package alarm

import (
	"context"
	"fmt"
	"os/exec"
)

// Player plays the alarm sound once. Play blocks until playback ends
// or ctx is cancelled; the Dispatcher runs it off the frame loop.
type Player interface {
	Play(ctx context.Context) error
}

// playerCandidates are tried in order when no player binary is forced.
// aplay covers Linux/ALSA, afplay macOS, ffplay everything else.
var playerCandidates = [][]string{
	{"aplay", "-q"},
	{"afplay"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
}

// ExecPlayer plays a WAV file through an external player binary.
type ExecPlayer struct {
	soundPath string
	command   []string
}

// NewExecPlayer creates a player for the given WAV file, probing PATH
// for a usable player binary.
func NewExecPlayer(soundPath string) (*ExecPlayer, error) {
	for _, cand := range playerCandidates {
		if _, err := exec.LookPath(cand[0]); err == nil {
			return &ExecPlayer{soundPath: soundPath, command: cand}, nil
		}
	}
	return nil, fmt.Errorf("no audio player found in PATH (tried aplay, afplay, ffplay)")
}

// Play runs the player binary on the sound file.
func (p *ExecPlayer) Play(ctx context.Context) error {
	args := append(append([]string{}, p.command[1:]...), p.soundPath)
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", p.command[0], err)
	}
	return nil
}

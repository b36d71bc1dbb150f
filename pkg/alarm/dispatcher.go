package alarm

import (
	"context"
	"sync"

	"github.com/vigil-labs/go-vigil/internal/log"
)

// Dispatcher runs alarm playback as a fire-and-forget background task.
// Playback failures are logged and swallowed; they never reach the
// frame-processing loop. If a trigger arrives while playback is still
// running, it is dropped: the state machine's debounce already limits
// triggers to one per episode, so an in-flight playback covers it.
type Dispatcher struct {
	player  Player
	enabled bool

	mu      sync.Mutex
	playing bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A nil player or enabled=false
// turns Trigger into a no-op.
func NewDispatcher(player Player, enabled bool) *Dispatcher {
	return &Dispatcher{player: player, enabled: enabled}
}

// Trigger starts alarm playback in the background and returns
// immediately.
func (d *Dispatcher) Trigger(ctx context.Context) {
	if !d.enabled || d.player == nil {
		return
	}

	d.mu.Lock()
	if d.playing {
		d.mu.Unlock()
		return
	}
	d.playing = true
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			d.mu.Lock()
			d.playing = false
			d.mu.Unlock()
		}()

		if err := d.player.Play(ctx); err != nil {
			log.Warn("alarm playback failed", "error", err)
		}
	}()
}

// Wait blocks until any in-flight playback finishes. Used on shutdown
// and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

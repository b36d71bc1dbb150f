package alarm

import (
	"context"
	"sync"
)

// MockPlayer records plays for tests and optionally fails.
type MockPlayer struct {
	mu    sync.Mutex
	plays int

	// Err, when set, is returned from every Play call.
	Err error

	// Block, when set, makes Play wait until ctx is cancelled.
	Block bool
}

// Play records the call.
func (m *MockPlayer) Play(ctx context.Context) error {
	m.mu.Lock()
	m.plays++
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
	}
	return m.Err
}

// Plays returns how many times Play has been called.
func (m *MockPlayer) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

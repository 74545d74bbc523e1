package tests

import (
	"context"
	"sync"

	"taximeter/internal/domain"
)

// MockSource is a hand-driven position source for integration tests. It
// records subscribe calls and lets the test push fixes at will.
type MockSource struct {
	mu sync.Mutex

	SubscribeCallCount int
	SubscribeErr       error

	ch chan domain.Position
}

func NewMockSource() *MockSource {
	return &MockSource{}
}

func (m *MockSource) Subscribe(ctx context.Context) (<-chan domain.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SubscribeCallCount++
	if m.SubscribeErr != nil {
		return nil, m.SubscribeErr
	}
	m.ch = make(chan domain.Position, 32)
	return m.ch, nil
}

// Push delivers one fix to the current subscriber.
func (m *MockSource) Push(pos domain.Position) {
	m.mu.Lock()
	ch := m.ch
	m.mu.Unlock()
	ch <- pos
}

// Subscribes returns how many times Subscribe has been called.
func (m *MockSource) Subscribes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SubscribeCallCount
}

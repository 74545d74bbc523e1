package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests. Advance moves time forward
// and delivers every tick that elapsed to every live ticker; unlike the real
// ticker, no tick is ever dropped, so waiting-time accounting stays exact
// across arbitrarily large advances.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

// NewFake returns a Fake clock starting at the given instant.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{
		clk:      f,
		interval: d,
		ch:       make(chan time.Time, 1),
		done:     make(chan struct{}),
	}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves the clock forward, firing due ticks. Advance blocks until
// each due tick has been handed to its receiver (or the ticker is stopped),
// but tick handling itself is asynchronous; tests should still poll for the
// resulting state change.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	live := make([]*fakeTicker, len(f.tickers))
	copy(live, f.tickers)
	f.mu.Unlock()

	for _, t := range live {
		t.advance(now, d)
	}
}

func (f *Fake) remove(t *fakeTicker) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, other := range f.tickers {
		if other == t {
			f.tickers = append(f.tickers[:i], f.tickers[i+1:]...)
			return
		}
	}
}

type fakeTicker struct {
	clk      *Fake
	interval time.Duration
	ch       chan time.Time
	done     chan struct{}

	mu      sync.Mutex
	elapsed time.Duration
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	if !t.stopped {
		t.stopped = true
		close(t.done)
	}
	t.mu.Unlock()
	t.clk.remove(t)
}

// advance counts the ticks due for this advance under the lock, then sends
// them outside it so a blocked send can never deadlock against Stop. A tick
// still undelivered when the ticker stops is discarded, matching a stopped
// real ticker.
func (t *fakeTicker) advance(now time.Time, d time.Duration) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.elapsed += d
	due := 0
	for t.elapsed >= t.interval {
		t.elapsed -= t.interval
		due++
	}
	done := t.done
	t.mu.Unlock()

	for i := 0; i < due; i++ {
		select {
		case t.ch <- now:
		case <-done:
			return
		}
	}
}

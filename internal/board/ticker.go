package board

import (
	"context"
	"sync"
	"time"

	"resource_hub/internal/domain"
)

// Ticker recomputes the countdowns of every visible card on one shared tick.
// Replacing the card set cancels the previous tick as a unit.
type Ticker struct {
	interval time.Duration
	emit     func([]Countdown)
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a stopped ticker. emit runs on the ticker goroutine and
// must not call Replace or Stop.
func NewTicker(interval time.Duration, emit func([]Countdown)) *Ticker {
	return &Ticker{
		interval: interval,
		emit:     emit,
		now:      time.Now,
	}
}

// Replace swaps the visible cards. Countdowns are emitted at once and then on
// every tick until ctx ends, Stop is called, or every card has expired.
func (t *Ticker) Replace(ctx context.Context, items []domain.DeadlineItem) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	cards := make([]domain.DeadlineItem, len(items))
	copy(cards, items)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go t.run(runCtx, cards, done)
}

// Stop cancels the running tick and waits for it to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
}

func (t *Ticker) run(ctx context.Context, cards []domain.DeadlineItem, done chan struct{}) {
	defer close(done)

	if !t.tick(cards) {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.tick(cards) {
				return
			}
		}
	}
}

// tick emits the current countdowns and reports whether any is still running.
func (t *Ticker) tick(cards []domain.DeadlineItem) bool {
	countdowns := Countdowns(cards, t.now())
	t.emit(countdowns)

	for _, c := range countdowns {
		if !c.Expired {
			return true
		}
	}
	return false
}

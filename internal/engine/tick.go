// Package engine runs outbreak sessions: the day-by-day simulation, the end
// conditions, the session facade handed to presentation layers and the
// real-time day loop.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// pausePoll is how often a paused engine checks for a speed change.
const pausePoll = 100 * time.Millisecond

// Engine advances a session in real time.
type Engine struct {
	Interval time.Duration // Wall time per day at speed 1.0

	// OnDay advances one day. Returning true stops the loop.
	OnDay func() (done bool)

	mu    sync.Mutex
	speed float64 // Multiplier: 1.0 = one day per Interval, 0 = paused
	days  int
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Interval: time.Second,
		speed:    1.0,
	}
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the speed. Zero or negative pauses the loop and leaves
// advancing to manual calls.
func (e *Engine) SetSpeed(speed float64) {
	e.mu.Lock()
	e.speed = max(0, speed)
	e.mu.Unlock()
	slog.Info("engine speed changed", "speed", speed)
}

// Days is how many days the loop has advanced.
func (e *Engine) Days() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.days
}

// Run drives OnDay until it reports done or ctx is cancelled. It returns
// ctx.Err() on cancellation and nil when the session ends.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started", "speed", e.Speed(), "interval", e.Interval)
	defer slog.Info("simulation engine stopped", "days", e.Days())

	for {
		speed := e.Speed()
		if speed <= 0 {
			if err := sleep(ctx, pausePoll); err != nil {
				return err
			}
			continue
		}

		start := time.Now()
		done := e.OnDay()
		e.mu.Lock()
		e.days++
		e.mu.Unlock()
		if done {
			return nil
		}

		// Sleep for the remainder of the day interval, adjusted for speed.
		target := time.Duration(float64(e.Interval) / speed)
		if err := sleep(ctx, target-time.Since(start)); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

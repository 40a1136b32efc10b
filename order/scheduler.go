package order

import (
	"context"
	"time"
)

// Stage tags which lifecycle transition a scheduled task drives.
type Stage string

const (
	// StageConfirm simulates the payment confirmation after the pay delay.
	StageConfirm Stage = "confirm"
	// StageFollowUp delivers the verification code and retires the order.
	StageFollowUp Stage = "follow_up"
)

// Task is the typed payload a scheduler delivers back to the state machine.
// Carrying the order id instead of a closure keeps nothing captured across
// the asynchronous boundary; the handler re-reads all state from the store.
type Task struct {
	OrderID string
	Stage   Stage
}

// Scheduler fires a task once after the given delay. There is no cancel:
// tasks firing against already-removed orders are normal no-ops.
type Scheduler interface {
	Schedule(delay time.Duration, task Task)
}

// TaskHandler consumes scheduled tasks; implemented by Service.
type TaskHandler interface {
	HandleTask(ctx context.Context, task Task)
}

// TimerScheduler runs each task on its own timer. Timers for different
// orders execute concurrently against the shared stores.
type TimerScheduler struct {
	handler TaskHandler
}

// NewTimerScheduler returns a scheduler with no handler bound yet.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Bind wires the task handler. Must be called before any Schedule fires.
func (s *TimerScheduler) Bind(h TaskHandler) {
	s.handler = h
}

// Schedule arms a one-shot timer for the task.
func (s *TimerScheduler) Schedule(delay time.Duration, task Task) {
	time.AfterFunc(delay, func() {
		if s.handler == nil {
			return
		}
		s.handler.HandleTask(context.Background(), task)
	})
}

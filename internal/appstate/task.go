package appstate

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a cancellable periodic job. It runs fn every interval until Stop
// is called or the parent context is done.
type Task struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartTask launches fn on a ticker in its own goroutine.
func StartTask(ctx context.Context, logger *slog.Logger, name string, interval time.Duration, fn func(context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{name: name, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Debug("task started", "task", name, "interval", interval)
		for {
			select {
			case <-ctx.Done():
				logger.Debug("task stopped", "task", name)
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
	return t
}

// Name returns the task's name.
func (t *Task) Name() string {
	return t.name
}

// Stop cancels the task and waits for its goroutine to exit.
// Safe to call more than once.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the task's goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

package chat

import (
	"context"
	"time"
)

// Typewriter reveals text one character per Delay.
type Typewriter struct {
	Delay time.Duration
}

// Play calls frame with each successively longer prefix of text. It returns
// nil once the full text has been shown, or ctx.Err() if ctx is cancelled
// first. A zero Delay shows the whole text in one frame.
func (tw Typewriter) Play(ctx context.Context, text string, frame func(partial string)) error {
	if frame == nil {
		frame = func(string) {}
	}
	if tw.Delay <= 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame(text)
		return nil
	}

	runes := []rune(text)
	if len(runes) == 0 {
		frame("")
		return ctx.Err()
	}

	ticker := time.NewTicker(tw.Delay)
	defer ticker.Stop()

	for i := 1; i <= len(runes); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			frame(string(runes[:i]))
		}
	}
	return nil
}

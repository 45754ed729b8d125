package game

import (
	"sync"
	"time"
)

// countdown is a cancellable repeating timer owned by the room. At most one
// is active at a time; every transition that supersedes it must cancel it
// first. Cancellation is idempotent and safe from any goroutine.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func (c *countdown) cancel() {
	c.once.Do(func() { close(c.stop) })
}

// startCountdown runs tick once per interval with the seconds remaining,
// then done when the count reaches zero. Callbacks receive the countdown
// they belong to; they must take the room lock and verify it is still the
// active one, so a tick already in flight when the countdown is superseded
// falls through as a no-op.
func startCountdown(seconds int, interval time.Duration, tick func(c *countdown, left int), done func(c *countdown)) *countdown {
	c := &countdown{stop: make(chan struct{})}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		left := seconds
		for {
			select {
			case <-c.stop:
				return
			case <-t.C:
				left--
				if left <= 0 {
					done(c)
					return
				}
				tick(c, left)
			}
		}
	}()
	return c
}

package screen

import (
	"github.com/juju/clock"
	"time"
)

// loopClock runs AfterFunc callbacks on the controller loop instead of the
// timer goroutine.
type loopClock struct {
	clock.Clock
	post func(func())
}

func (c *loopClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.Clock.AfterFunc(d, func() {
		c.post(f)
	})
}

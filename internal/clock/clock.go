package clock

import (
	"fmt"
	"time"

	bclock "github.com/benbjohnson/clock"
)

// TickInterval is the period of the elapsed-time ticker.
const TickInterval = time.Second

// Clock is the elapsed-time tick source of a recording session. It runs only
// while the recorder is actively capturing; the owner adds one second to its
// elapsed counter per value received from C.
//
// Clock is not safe for concurrent use. It is owned by the goroutine that
// drives the recorder.
type Clock struct {
	source bclock.Clock
	ticker *bclock.Ticker
}

func New() *Clock {
	return NewWithSource(bclock.New())
}

// NewWithSource builds a Clock on an arbitrary time source, typically a
// *bclock.Mock in tests.
func NewWithSource(source bclock.Clock) *Clock {
	return &Clock{source: source}
}

// Start creates the ticker if none is running.
func (c *Clock) Start() {
	if c.ticker != nil {
		return
	}
	c.ticker = c.source.Ticker(TickInterval)
}

// Stop tears the ticker down. Safe to call repeatedly.
func (c *Clock) Stop() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
}

func (c *Clock) Running() bool {
	return c.ticker != nil
}

// C returns the tick channel, or nil while stopped so that a select on it
// never fires.
func (c *Clock) C() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C
}

// FormatTime renders whole seconds as MM:SS. Minutes are not wrapped into
// hours, so 3661 renders as "61:01".
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/wardscribe/voicepanel/internal/recording"
)

// FakeDevice is a scriptable recording.Device.
type FakeDevice struct {
	Unsupported bool
	// Formats lists supported MIME types; empty supports everything.
	Formats []string
	OpenErr error
	// AutoAck makes every capture acknowledge Stop immediately, after
	// emitting TailChunk if set.
	AutoAck   bool
	TailChunk []byte

	mu              sync.Mutex
	captures        []*FakeCapture
	lastConstraints recording.Constraints
	lastFormat      recording.Format
}

func NewFakeDevice() *FakeDevice {
	return &FakeDevice{}
}

func (d *FakeDevice) Supported() bool {
	return !d.Unsupported
}

func (d *FakeDevice) SupportsFormat(mime string) bool {
	if len(d.Formats) == 0 {
		return true
	}
	for _, f := range d.Formats {
		if f == mime {
			return true
		}
	}
	return false
}

func (d *FakeDevice) Open(ctx context.Context, c recording.Constraints, f recording.Format, interval time.Duration) (recording.Capture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastConstraints = c
	d.lastFormat = f
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}

	capture := &FakeCapture{
		events:    make(chan recording.Event, 64),
		autoAck:   d.AutoAck,
		tailChunk: d.TailChunk,
	}
	d.captures = append(d.captures, capture)
	return capture, nil
}

// Last returns the most recently opened capture, or nil.
func (d *FakeDevice) Last() *FakeCapture {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.captures) == 0 {
		return nil
	}
	return d.captures[len(d.captures)-1]
}

func (d *FakeDevice) Opened() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.captures)
}

func (d *FakeDevice) LastConstraints() recording.Constraints {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastConstraints
}

func (d *FakeDevice) LastFormat() recording.Format {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastFormat
}

// FakeCapture is one open fake stream. Tests push events with Emit, Ack and
// Fail.
type FakeCapture struct {
	events    chan recording.Event
	autoAck   bool
	tailChunk []byte

	mu       sync.Mutex
	closed   bool
	paused   bool
	pauses   int
	resumes  int
	stops    int
	releases int
}

func (c *FakeCapture) Events() <-chan recording.Event {
	return c.events
}

func (c *FakeCapture) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	c.pauses++
}

func (c *FakeCapture) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	c.resumes++
}

func (c *FakeCapture) Stop() {
	c.mu.Lock()
	c.stops++
	auto := c.autoAck
	tail := c.tailChunk
	c.mu.Unlock()

	if auto {
		if len(tail) > 0 {
			c.Emit(tail)
		}
		c.Ack()
	}
}

func (c *FakeCapture) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releases++
}

// Emit delivers one data chunk. Ignored after the stream ended.
func (c *FakeCapture) Emit(data []byte) {
	c.send(recording.Event{Type: recording.DataAvailable, Data: data}, false)
}

// Ack delivers the stop acknowledgment and ends the stream.
func (c *FakeCapture) Ack() {
	c.send(recording.Event{Type: recording.CaptureStopped}, true)
}

// Fail delivers a device error and ends the stream.
func (c *FakeCapture) Fail(err error) {
	c.send(recording.Event{Type: recording.Failed, Err: err}, true)
}

func (c *FakeCapture) send(ev recording.Event, last bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.events <- ev
	if last {
		c.closed = true
		close(c.events)
	}
}

func (c *FakeCapture) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *FakeCapture) Stops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

func (c *FakeCapture) Releases() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releases
}

func (c *FakeCapture) Pauses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauses
}

func (c *FakeCapture) Resumes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumes
}

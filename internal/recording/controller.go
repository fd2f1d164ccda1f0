package recording

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/wardscribe/voicepanel/internal/clock"
	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

type State string

const (
	Idle      State = "idle"
	Capturing State = "recording"
	Paused    State = "paused"
	Stopping  State = "stopping"
	Stopped   State = "stopped"
)

// Active reports whether a capture stream is open.
func (s State) Active() bool {
	return s == Capturing || s == Paused || s == Stopping
}

type Config struct {
	PreferredMIME string
	Formats       []Format
	BitsPerSecond int
	Interval      time.Duration
	SampleRate    int
	Channels      int
	Device        string
}

func DefaultConfig() Config {
	return Config{
		PreferredMIME: FormatWebM.MIME,
		Formats:       DefaultFormats,
		BitsPerSecond: 128000,
		Interval:      100 * time.Millisecond,
		SampleRate:    16000,
		Channels:      1,
	}
}

// Snapshot is a copy of the controller's observable state.
type Snapshot struct {
	State     State
	Elapsed   int
	Format    Format
	Chunks    int
	Artifact  *Artifact
	Err       error
	Supported bool
}

// Controller owns one capture device and the recording session running on
// it. It has no goroutine of its own and is not safe for concurrent use: the
// owner selects on Events and Ticks and feeds what it receives back through
// Handle and Tick.
type Controller struct {
	device Device
	config Config
	clock  *clock.Clock

	OnComplete func(*Artifact)
	OnError    func(error)

	state    State
	elapsed  int
	format   Format
	chunks   [][]byte
	capture  Capture
	artifact *Artifact
	err      error
}

func NewController(device Device, config Config, clk *clock.Clock) *Controller {
	if clk == nil {
		clk = clock.New()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if len(config.Formats) == 0 {
		config.Formats = DefaultFormats
	}
	return &Controller{
		device: device,
		config: config,
		clock:  clk,
		state:  Idle,
	}
}

func (c *Controller) Supported() bool {
	return c.device != nil && c.device.Supported()
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Elapsed() int { return c.elapsed }

func (c *Controller) Artifact() *Artifact { return c.artifact }

func (c *Controller) Err() error { return c.err }

func (c *Controller) Format() Format { return c.format }

// Ticks returns the clock channel; nil unless recording.
func (c *Controller) Ticks() <-chan time.Time { return c.clock.C() }

// Events returns the open capture's event channel, or nil when no capture is
// open.
func (c *Controller) Events() <-chan Event {
	if c.capture == nil {
		return nil
	}
	return c.capture.Events()
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:     c.state,
		Elapsed:   c.elapsed,
		Format:    c.format,
		Chunks:    len(c.chunks),
		Artifact:  c.artifact,
		Err:       c.err,
		Supported: c.Supported(),
	}
}

// Start opens the device and begins buffering chunks. Failures are recorded
// as state and also returned; the controller stays Idle.
func (c *Controller) Start(ctx context.Context) error {
	if !c.Supported() {
		err := voiceerr.New(voiceerr.Unsupported, msgUnsupported, ErrUnsupported)
		c.fail(err)
		return err
	}

	// only one capture may be open at a time
	if c.capture != nil {
		log.Printf("Recorder: releasing previous capture before starting a new one")
		c.releaseCapture()
	}

	c.err = nil
	c.chunks = nil
	c.elapsed = 0

	c.format = SelectFormat(c.config.PreferredMIME, c.config.Formats, c.device.SupportsFormat)

	constraints := Constraints{
		EchoCancellation: true,
		NoiseSuppression: true,
		AutoGainControl:  true,
		SampleRate:       c.config.SampleRate,
		Channels:         c.config.Channels,
		Device:           c.config.Device,
		BitsPerSecond:    c.config.BitsPerSecond,
	}

	capture, err := c.device.Open(ctx, constraints, c.format, c.config.Interval)
	if err != nil {
		verr := classifyDeviceError(err, "")
		log.Printf("Recorder: failed to open device: %v", err)
		c.state = Idle
		c.fail(verr)
		return verr
	}

	c.capture = capture
	c.state = Capturing
	c.clock.Start()
	log.Printf("Recorder: recording started (format=%s, interval=%v)", c.format.MIME, c.config.Interval)
	return nil
}

// Pause is a no-op unless recording.
func (c *Controller) Pause() bool {
	if c.state != Capturing {
		return false
	}
	c.capture.Pause()
	c.clock.Stop()
	c.state = Paused
	return true
}

// Resume is a no-op unless paused.
func (c *Controller) Resume() bool {
	if c.state != Paused {
		return false
	}
	c.capture.Resume()
	c.state = Capturing
	c.clock.Start()
	return true
}

// Stop requests the device to finish. The artifact is produced when the
// device acknowledges with a CaptureStopped event.
func (c *Controller) Stop() bool {
	if c.state != Capturing && c.state != Paused {
		return false
	}
	c.clock.Stop()
	c.state = Stopping
	c.capture.Stop()
	return true
}

// Tick advances elapsed time by one second while recording.
func (c *Controller) Tick() {
	if c.state == Capturing {
		c.elapsed++
	}
}

// Handle applies one capture event. It returns the artifact when ev is the
// stop acknowledgment.
func (c *Controller) Handle(ev Event) (*Artifact, error) {
	switch ev.Type {
	case DataAvailable:
		if len(ev.Data) > 0 {
			c.chunks = append(c.chunks, ev.Data)
		}
		return nil, nil

	case CaptureStopped:
		a := NewArtifact(c.format, c.chunks, time.Duration(c.elapsed)*time.Second)
		c.artifact = a
		c.chunks = nil
		c.state = Stopped
		c.clock.Stop()
		c.releaseCapture()
		log.Printf("Recorder: recording finalized (%d chunks, %d bytes, %s)", a.Chunks, a.Size(), a.MIME)
		if c.OnComplete != nil {
			c.OnComplete(a)
		}
		return a, nil

	case Failed:
		err := ev.Err
		if err == nil {
			err = errors.New(msgRecordingError)
		}
		verr := classifyDeviceError(err, "")
		c.state = Idle
		c.chunks = nil
		c.clock.Stop()
		c.releaseCapture()
		c.fail(verr)
		return nil, verr
	}
	return nil, nil
}

// Clear drops the artifact and resets elapsed time and error. Safe in any
// state; an open capture keeps running.
func (c *Controller) Clear() {
	c.artifact = nil
	c.elapsed = 0
	c.err = nil
	if !c.state.Active() {
		c.chunks = nil
		c.state = Idle
	}
}

// Release tears everything down without producing an artifact.
func (c *Controller) Release() {
	c.clock.Stop()
	c.releaseCapture()
	c.chunks = nil
	if c.state.Active() {
		c.state = Idle
	}
}

func (c *Controller) releaseCapture() {
	if c.capture == nil {
		return
	}
	c.capture.Release()
	c.capture = nil
}

func (c *Controller) fail(err error) {
	c.err = err
	log.Printf("Recorder: %v", err)
	if c.OnError != nil {
		c.OnError(err)
	}
}

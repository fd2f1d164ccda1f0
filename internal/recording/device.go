package recording

import (
	"context"
	"time"
)

// Constraints are the processing options requested from the capture device.
type Constraints struct {
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
	SampleRate       int
	Channels         int
	Device           string
	BitsPerSecond    int
}

type EventType int

const (
	// DataAvailable carries one encoded chunk.
	DataAvailable EventType = iota
	// CaptureStopped is the device's acknowledgment that capture fully ended and
	// every chunk has been delivered.
	CaptureStopped
	// Failed reports a device error; no CaptureStopped follows.
	Failed
)

func (t EventType) String() string {
	switch t {
	case DataAvailable:
		return "data"
	case CaptureStopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is delivered by a Capture on its Events channel.
type Event struct {
	Type EventType
	Data []byte
	Err  error
}

// Device is a capture backend.
type Device interface {
	// Supported reports whether the environment can capture at all.
	Supported() bool
	SupportsFormat(mime string) bool
	// Open acquires the input and starts emitting one DataAvailable event per
	// interval.
	Open(ctx context.Context, c Constraints, f Format, interval time.Duration) (Capture, error)
}

// Capture is one open capture stream. Events ends with exactly one CaptureStopped or
// Failed event, after which the channel is closed.
type Capture interface {
	Events() <-chan Event
	Pause()
	Resume()
	// Stop asks the device to finish. The acknowledgment arrives as a CaptureStopped
	// event.
	Stop()
	// Release frees the underlying input immediately. Safe to call more than
	// once.
	Release()
}

package transcriber

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

// Result is the client's observable transcription state.
type Result struct {
	Transcript string
	InFlight   bool
	Err        error
	ArtifactID uuid.UUID
}

// Client enforces at-most-one transcription in flight. A call for the
// recording already in flight is rejected with ErrInFlight; a call for a
// different recording cancels the pending one, whose completion is then
// discarded.
type Client struct {
	backend Backend

	// OnSuccess and OnError fire once per call that completes without being
	// cancelled or superseded.
	OnSuccess func(text string)
	OnError   func(err error)

	mu         sync.Mutex
	gen        uint64
	cancel     context.CancelFunc
	inFlight   bool
	inFlightID uuid.UUID
	result     Result
}

func NewClient(backend Backend) *Client {
	return &Client{backend: backend}
}

func (c *Client) Backend() Backend {
	return c.backend
}

func (c *Client) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Transcribe blocks until the backend answers, the call is superseded, or ctx
// is cancelled. Superseded and cancelled calls return an Aborted error and
// leave the client's state untouched.
func (c *Client) Transcribe(ctx context.Context, a *recording.Artifact) (string, error) {
	c.mu.Lock()
	if a == nil {
		err := voiceerr.New(voiceerr.NetworkOrServer, msgNoArtifact, ErrNoArtifact)
		c.result.Transcript = ""
		c.result.Err = err
		onError := c.OnError
		c.mu.Unlock()
		if onError != nil {
			onError(err)
		}
		return "", err
	}
	if c.inFlight {
		if c.inFlightID == a.ID {
			c.mu.Unlock()
			log.Printf("transcriber: %s already in flight, ignoring", a.ID)
			return "", ErrInFlight
		}
		log.Printf("transcriber: superseding in-flight %s with %s", c.inFlightID, a.ID)
		c.cancel()
	}
	c.gen++
	gen := c.gen
	callCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.inFlight = true
	c.inFlightID = a.ID
	c.result.InFlight = true
	c.result.Err = nil
	c.result.ArtifactID = a.ID
	c.mu.Unlock()
	defer cancel()

	log.Printf("transcriber: sending %d bytes (%s) to %s", a.Size(), a.MIME, c.backend.Name())
	start := time.Now()
	text, err := c.backend.Transcribe(callCtx, a)
	duration := time.Since(start)
	err = Classify(err)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		log.Printf("transcriber: discarding stale result for %s", a.ID)
		return "", voiceerr.New(voiceerr.Aborted, msgAborted, context.Canceled)
	}
	c.inFlight = false
	c.cancel = nil
	c.result.InFlight = false

	if err != nil {
		if voiceerr.IsAborted(err) {
			c.mu.Unlock()
			log.Printf("transcriber: call for %s cancelled after %v", a.ID, duration)
			return "", err
		}
		c.result.Transcript = ""
		c.result.Err = err
		onError := c.OnError
		c.mu.Unlock()

		log.Printf("transcriber: transcription failed after %v: %v", duration, err)
		if onError != nil {
			onError(err)
		}
		return "", err
	}

	c.result.Transcript = text
	c.result.Err = nil
	onSuccess := c.OnSuccess
	c.mu.Unlock()

	log.Printf("transcriber: transcribed %s in %v: %q", a.ID, duration, text)
	if onSuccess != nil {
		onSuccess(text)
	}
	return text, nil
}

// Abort cancels the in-flight call, if any. Its completion is discarded.
func (c *Client) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inFlight {
		return
	}
	c.gen++
	c.cancel()
	c.cancel = nil
	c.inFlight = false
	c.result.InFlight = false
}

// Clear resets transcript and error.
func (c *Client) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Transcript = ""
	c.result.Err = nil
}

package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/wardscribe/voicepanel/internal/notify"
	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/transcriber"
	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

// Host receives the session's output.
type Host interface {
	DeliverTranscript(text string)
	Close()
}

type nopHost struct{}

func (nopHost) DeliverTranscript(string) {}
func (nopHost) Close()                   {}

type Options struct {
	// MaxDuration stops a recording automatically once elapsed time reaches
	// it. Zero disables the limit.
	MaxDuration time.Duration
}

// Snapshot is the observable session state.
type Snapshot struct {
	Phase      Phase
	Elapsed    int
	Format     string
	Chunks     int
	Transcript string
	Err        error
	CanRetry   bool
	InFlight   bool
	Supported  bool
}

// ErrMessage returns the user-facing text of Err, or "".
func (s Snapshot) ErrMessage() string {
	return voiceerr.MessageOf(s.Err)
}

type command struct {
	event Event
	reply chan Snapshot
}

// Coordinator runs one voice session. A single goroutine owns the recorder
// and the machine state; commands, capture events, clock ticks and
// transcription completions are all serialized through it.
type Coordinator struct {
	ctrl     *recording.Controller
	client   *transcriber.Client
	host     Host
	notifier notify.Notifier
	opts     Options

	cmds    chan command
	results chan Event
	updates chan Snapshot
	done    chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once

	lifeMu sync.Mutex // guards cancel and closed
	cancel context.CancelFunc
	closed bool

	mu   sync.RWMutex
	snap Snapshot

	state State
}

func New(ctrl *recording.Controller, client *transcriber.Client, host Host, notifier notify.Notifier, opts Options) *Coordinator {
	if host == nil {
		host = nopHost{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	c := &Coordinator{
		ctrl:     ctrl,
		client:   client,
		host:     host,
		notifier: notifier,
		opts:     opts,
		cmds:     make(chan command),
		results:  make(chan Event, 1),
		updates:  make(chan Snapshot, 16),
		done:     make(chan struct{}),
		state:    NewState(),
	}
	c.snap = c.buildSnapshot()
	return c
}

// Run starts the event loop. Later calls, and calls after Close, do nothing.
func (c *Coordinator) Run(ctx context.Context) {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()
	if c.closed || c.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(runCtx)
}

func (c *Coordinator) Start() Snapshot           { return c.send(Event{Type: StartRequested}) }
func (c *Coordinator) Pause() Snapshot           { return c.send(Event{Type: PauseRequested}) }
func (c *Coordinator) Resume() Snapshot          { return c.send(Event{Type: ResumeRequested}) }
func (c *Coordinator) Stop() Snapshot            { return c.send(Event{Type: StopRequested}) }
func (c *Coordinator) ToggleRecording() Snapshot { return c.send(Event{Type: ToggleRecording}) }
func (c *Coordinator) TogglePause() Snapshot     { return c.send(Event{Type: TogglePause}) }
func (c *Coordinator) Retry() Snapshot           { return c.send(Event{Type: RetryRequested}) }
func (c *Coordinator) Done() Snapshot            { return c.send(Event{Type: DoneRequested}) }
func (c *Coordinator) Cancel() Snapshot          { return c.send(Event{Type: CancelRequested}) }

// Snapshot returns the state published after the last processed input.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Updates delivers a snapshot after every processed input. Slow readers miss
// intermediate snapshots. The channel is closed when the loop exits.
func (c *Coordinator) Updates() <-chan Snapshot {
	return c.updates
}

// Closed is closed once the loop has exited, after Done, Cancel or Close.
func (c *Coordinator) Closed() <-chan struct{} {
	return c.done
}

// Close force-stops capture, abandons any transcription and waits for the
// loop to exit. The host is not notified.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		c.lifeMu.Lock()
		c.closed = true
		cancel := c.cancel
		c.lifeMu.Unlock()

		if cancel != nil {
			cancel()
			return
		}
		// the loop never ran
		close(c.updates)
		close(c.done)
	})
	<-c.done
}

func (c *Coordinator) send(ev Event) Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case c.cmds <- command{event: ev, reply: reply}:
	case <-c.done:
		return c.Snapshot()
	}
	select {
	case snap := <-reply:
		return snap
	case <-c.done:
		select {
		case snap := <-reply:
			return snap
		default:
			return c.Snapshot()
		}
	}
}

func (c *Coordinator) run(ctx context.Context) {
	defer close(c.done)
	defer close(c.updates)
	defer c.shutdown()

	log.Printf("Session: coordinator started")
	for {
		select {
		case <-ctx.Done():
			log.Printf("Session: context cancelled, closing")
			return

		case cmd := <-c.cmds:
			log.Printf("Session: received %s", cmd.event.Type)
			c.dispatch(ctx, cmd.event)
			snap := c.publish()
			cmd.reply <- snap

		case ev, ok := <-c.ctrl.Events():
			if !ok {
				ev = recording.Event{Type: recording.Failed, Err: errors.New("capture stream ended without acknowledgment")}
			}
			c.handleCapture(ctx, ev)
			c.publish()

		case <-c.ctrl.Ticks():
			c.ctrl.Tick()
			if c.opts.MaxDuration > 0 && time.Duration(c.ctrl.Elapsed())*time.Second >= c.opts.MaxDuration {
				log.Printf("Session: maximum recording duration %v reached, stopping", c.opts.MaxDuration)
				c.dispatch(ctx, Event{Type: StopRequested})
			}
			c.publish()

		case ev := <-c.results:
			c.dispatch(ctx, ev)
			c.publish()
		}

		if c.state.Phase == Cancelled {
			log.Printf("Session: closed")
			return
		}
	}
}

func (c *Coordinator) handleCapture(ctx context.Context, ev recording.Event) {
	a, err := c.ctrl.Handle(ev)
	switch {
	case a != nil:
		c.dispatch(ctx, Event{Type: ArtifactReady, Artifact: a})
	case err != nil:
		c.dispatch(ctx, Event{Type: DeviceFailed, Err: err})
	}
}

func (c *Coordinator) dispatch(ctx context.Context, ev Event) {
	prev := c.state.Phase
	next, effects := Step(c.state, ev)
	c.state = next
	if next.Phase != prev {
		log.Printf("Session: %s -> %s (%s)", prev, next.Phase, ev.Type)
	}
	for _, eff := range effects {
		c.apply(ctx, eff)
	}
}

func (c *Coordinator) apply(ctx context.Context, eff Effect) {
	switch eff.Type {
	case OpenDevice:
		if err := c.ctrl.Start(ctx); err != nil {
			c.dispatch(ctx, Event{Type: StartFailed, Err: err})
			return
		}
		c.dispatch(ctx, Event{Type: StartSucceeded})
	case PauseDevice:
		c.ctrl.Pause()
	case ResumeDevice:
		c.ctrl.Resume()
	case StopDevice:
		c.ctrl.Stop()
	case ReleaseDevice:
		c.ctrl.Release()
	case ClearRecording:
		c.ctrl.Clear()
	case ClearTranscript:
		c.client.Clear()
	case Transcribe:
		c.transcribe(ctx, eff.Artifact)
	case AbortTranscription:
		c.client.Abort()
	case Deliver:
		log.Printf("Session: delivering transcript (%d chars)", len(eff.Text))
		c.host.DeliverTranscript(eff.Text)
	case Close:
		c.host.Close()
	case Notify:
		c.notifier.Send(eff.Message)
	case NotifyError:
		if voiceerr.KindOf(eff.Err).IsDevice() {
			log.Printf("Session: capture failed: %v", eff.Err)
		} else {
			log.Printf("Session: transcription failed: %v", eff.Err)
		}
		c.notifier.Error(voiceerr.MessageOf(eff.Err))
	}
}

// transcribe runs the call off the loop; its completion comes back through
// results. Superseded and in-flight duplicates are dropped by the client and
// the machine.
func (c *Coordinator) transcribe(ctx context.Context, a *recording.Artifact) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		text, err := c.client.Transcribe(ctx, a)
		if errors.Is(err, transcriber.ErrInFlight) {
			return
		}
		ev := Event{Type: TranscriptionSucceeded, Artifact: a, Text: text}
		if err != nil {
			ev = Event{Type: TranscriptionErrored, Artifact: a, Err: err}
		}
		select {
		case c.results <- ev:
		case <-ctx.Done():
		}
	}()
}

func (c *Coordinator) shutdown() {
	if c.cancel != nil {
		c.cancel()
	}
	c.ctrl.Release()
	c.client.Abort()
	c.wg.Wait()
	c.publish()
}

func (c *Coordinator) publish() Snapshot {
	snap := c.buildSnapshot()
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	select {
	case c.updates <- snap:
	default:
	}
	return snap
}

func (c *Coordinator) buildSnapshot() Snapshot {
	rec := c.ctrl.Snapshot()
	return Snapshot{
		Phase:      c.state.Phase,
		Elapsed:    rec.Elapsed,
		Format:     rec.Format.MIME,
		Chunks:     rec.Chunks,
		Transcript: c.state.Transcript,
		Err:        c.state.Err(),
		CanRetry:   c.state.CanRetry(),
		InFlight:   c.client.Result().InFlight,
		Supported:  rec.Supported,
	}
}

package recording

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// PipeWireDevice captures from PipeWire through pw-record. It produces 16-bit
// PCM wrapped as audio/wav; echo cancellation, noise suppression and gain
// control are left to the PipeWire filter chain.
type PipeWireDevice struct {
	// ReadSize is the stdout read buffer size in bytes.
	ReadSize int
	// EventBuffer is the capacity of each capture's event channel.
	EventBuffer int
}

func NewPipeWireDevice() *PipeWireDevice {
	return &PipeWireDevice{ReadSize: 8192, EventBuffer: 30}
}

func (d *PipeWireDevice) Supported() bool {
	_, err := exec.LookPath("pw-record")
	return err == nil
}

func (d *PipeWireDevice) SupportsFormat(mime string) bool {
	return mime == FormatWAV.MIME
}

func (d *PipeWireDevice) Open(ctx context.Context, c Constraints, f Format, interval time.Duration) (Capture, error) {
	if !d.Supported() {
		return nil, fmt.Errorf("pw-record not found (install pipewire-tools): %w", ErrUnsupported)
	}
	if !d.SupportsFormat(f.MIME) {
		return nil, fmt.Errorf("pipewire: unsupported format %q", f.MIME)
	}
	if err := validateConstraints(c); err != nil {
		return nil, err
	}
	if err := CheckPipeWireAvailable(ctx); err != nil {
		return nil, err
	}

	// capture lifetime is independent of the request context
	captureCtx, cancel := context.WithCancel(context.Background())
	procCtx, stopProc := context.WithCancel(captureCtx)

	cmd := exec.CommandContext(procCtx, "pw-record", buildPwRecordArgs(c)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		stopProc()
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		stopProc()
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		stopProc()
		return nil, fmt.Errorf("start pw-record: %w", err)
	}

	readSize := d.ReadSize
	if readSize <= 0 {
		readSize = 8192
	}
	eventBuffer := d.EventBuffer
	if eventBuffer <= 0 {
		eventBuffer = 30
	}

	pc := &pipewireCapture{
		cmd:      cmd,
		events:   make(chan Event, eventBuffer),
		ctrl:     make(chan captureCmd, 4),
		done:     make(chan struct{}),
		cancel:   cancel,
		stopProc: stopProc,
	}

	reads := make(chan []byte, eventBuffer)
	go pc.readStdout(stdout, readSize, reads)
	go pc.readStderr(stderr)
	go pc.run(captureCtx, reads, wavHeader(c.SampleRate, c.Channels), interval)

	return pc, nil
}

type captureCmd int

const (
	cmdPause captureCmd = iota
	cmdResume
	cmdStop
)

type pipewireCapture struct {
	cmd    *exec.Cmd
	events chan Event
	ctrl   chan captureCmd
	done   chan struct{}

	cancel   context.CancelFunc
	stopProc context.CancelFunc
	once     sync.Once

	mu         sync.Mutex // guards lastStderr
	lastStderr string
}

func (p *pipewireCapture) Events() <-chan Event { return p.events }

func (p *pipewireCapture) Pause()  { p.send(cmdPause) }
func (p *pipewireCapture) Resume() { p.send(cmdResume) }
func (p *pipewireCapture) Stop()   { p.send(cmdStop) }

func (p *pipewireCapture) Release() {
	p.once.Do(func() {
		p.cancel()
		<-p.done
	})
}

func (p *pipewireCapture) send(cmd captureCmd) {
	select {
	case p.ctrl <- cmd:
	case <-p.done:
	}
}

func (p *pipewireCapture) readStdout(stdout io.Reader, size int, out chan<- []byte) {
	defer close(out)
	buf := make([]byte, size)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case out <- data:
			case <-p.done:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("Recording: read audio: %v", err)
			}
			return
		}
	}
}

func (p *pipewireCapture) readStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := scanner.Text()
		log.Printf("Recording stderr: %s", line)
		p.mu.Lock()
		p.lastStderr = line
		p.mu.Unlock()
	}
}

func (p *pipewireCapture) stderrDetail() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastStderr
}

func (p *pipewireCapture) run(ctx context.Context, reads <-chan []byte, header []byte, interval time.Duration) {
	defer func() {
		p.stopProc()
		_ = p.cmd.Wait()
		close(p.events)
		close(p.done)
	}()

	flush := time.NewTicker(interval)
	defer flush.Stop()

	pending := header
	paused := false
	stopping := false

	emit := func(ev Event) bool {
		select {
		case p.events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	flushPending := func() bool {
		if len(pending) == 0 {
			return true
		}
		chunk := pending
		pending = nil
		return emit(Event{Type: DataAvailable, Data: chunk})
	}

	for {
		select {
		case data, ok := <-reads:
			if !ok {
				// pw-record exited: either we asked it to, or it failed
				if stopping {
					if flushPending() {
						emit(Event{Type: CaptureStopped})
					}
					return
				}
				err := p.cmd.Wait()
				if err == nil {
					err = errors.New("pw-record exited unexpectedly")
				}
				emit(Event{Type: Failed, Err: classifyDeviceError(err, p.stderrDetail())})
				return
			}
			if !paused {
				pending = append(pending, data...)
			}

		case <-flush.C:
			if !flushPending() {
				return
			}

		case cmd := <-p.ctrl:
			switch cmd {
			case cmdPause:
				if !flushPending() {
					return
				}
				paused = true
			case cmdResume:
				paused = false
			case cmdStop:
				if !stopping {
					stopping = true
					p.stopProc()
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

func buildPwRecordArgs(c Constraints) []string {
	args := []string{
		"--format", "s16",
		"--rate", strconv.Itoa(c.SampleRate),
		"--channels", strconv.Itoa(c.Channels),
	}
	if c.Device != "" {
		args = append(args, "--target", c.Device)
	}
	args = append(args, "-") // stdout
	return args
}

func validateConstraints(c Constraints) error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid SampleRate: %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("invalid Channels: %d", c.Channels)
	}
	return nil
}

func CheckPipeWireAvailable(ctx context.Context) error {
	if _, err := exec.LookPath("pw-record"); err != nil {
		return fmt.Errorf("pw-record not found: %w (install pipewire-tools)", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(checkCtx, "pw-cli", "info")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("PipeWire not running or accessible: %w", ErrNoDevice)
	}
	return nil
}

package recording_test

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	bclock "github.com/benbjohnson/clock"

	"github.com/wardscribe/voicepanel/internal/clock"
	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/testutil"
	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

func newController(t *testing.T, device *testutil.FakeDevice) (*recording.Controller, *clock.Clock) {
	t.Helper()
	clk := clock.NewWithSource(bclock.NewMock())
	return recording.NewController(device, recording.DefaultConfig(), clk), clk
}

// drain feeds every pending capture event into the controller.
func drain(t *testing.T, c *recording.Controller) (*recording.Artifact, error) {
	t.Helper()
	var artifact *recording.Artifact
	var lastErr error
	for {
		events := c.Events()
		if events == nil {
			return artifact, lastErr
		}
		select {
		case ev, ok := <-events:
			if !ok {
				return artifact, lastErr
			}
			a, err := c.Handle(ev)
			if a != nil {
				artifact = a
			}
			if err != nil {
				lastErr = err
			}
		default:
			return artifact, lastErr
		}
	}
}

func TestControllerElapsedExcludesPause(t *testing.T) {
	device := testutil.NewFakeDevice()
	c, clk := newController(t, device)

	completed := 0
	c.OnComplete = func(*recording.Artifact) { completed++ }

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if c.State() != recording.Capturing {
		t.Fatalf("state = %s, want recording", c.State())
	}
	if c.Ticks() == nil {
		t.Error("Ticks() should be non-nil while recording")
	}

	capture := device.Last()
	capture.Emit([]byte("chunk-1"))

	for i := 0; i < 3; i++ {
		c.Tick()
	}

	if !c.Pause() {
		t.Fatal("Pause() = false while recording")
	}
	if clk.Running() {
		t.Error("clock should stop while paused")
	}
	c.Tick()
	c.Tick()
	if c.Elapsed() != 3 {
		t.Errorf("elapsed while paused = %d, want 3", c.Elapsed())
	}

	if !c.Resume() {
		t.Fatal("Resume() = false while paused")
	}
	capture.Emit([]byte("chunk-2"))
	c.Tick()
	c.Tick()

	if !c.Stop() {
		t.Fatal("Stop() = false while recording")
	}
	if clk.Running() {
		t.Error("clock should stop on Stop()")
	}
	if c.Artifact() != nil {
		t.Error("artifact must not exist before the stop acknowledgment")
	}

	capture.Emit([]byte("tail"))
	capture.Ack()

	a, err := drain(t, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil {
		t.Fatal("no artifact after stop acknowledgment")
	}

	if c.Elapsed() != 5 {
		t.Errorf("elapsed = %d, want 5", c.Elapsed())
	}
	if c.State() != recording.Stopped {
		t.Errorf("state = %s, want stopped", c.State())
	}
	if a.Chunks != 3 || string(a.Data) != "chunk-1chunk-2tail" {
		t.Errorf("artifact = %d chunks %q", a.Chunks, a.Data)
	}
	if completed != 1 {
		t.Errorf("OnComplete called %d times, want 1", completed)
	}
	if capture.Releases() == 0 {
		t.Error("capture should be released after stop")
	}
	if c.Ticks() != nil {
		t.Error("Ticks() should be nil after stop")
	}
}

func TestControllerIgnoresEmptyChunks(t *testing.T) {
	device := testutil.NewFakeDevice()
	c, _ := newController(t, device)

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	capture := device.Last()
	capture.Emit(nil)
	capture.Emit([]byte{})
	capture.Emit([]byte("a"))
	c.Stop()
	capture.Ack()

	a, _ := drain(t, c)
	if a == nil || a.Chunks != 1 {
		t.Fatalf("artifact = %+v, want 1 chunk", a)
	}
}

func TestControllerConstraints(t *testing.T) {
	device := testutil.NewFakeDevice()
	device.Formats = []string{"audio/ogg;codecs=opus", "audio/wav"}
	c, _ := newController(t, device)

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	cons := device.LastConstraints()
	if !cons.EchoCancellation || !cons.NoiseSuppression || !cons.AutoGainControl {
		t.Errorf("processing flags not all enabled: %+v", cons)
	}
	if cons.BitsPerSecond != 128000 {
		t.Errorf("bitrate hint = %d, want 128000", cons.BitsPerSecond)
	}
	if got := device.LastFormat().MIME; got != "audio/ogg;codecs=opus" {
		t.Errorf("negotiated format = %s, want audio/ogg;codecs=opus", got)
	}
	if c.Format().Ext != "ogg" {
		t.Errorf("Format().Ext = %s, want ogg", c.Format().Ext)
	}
}

func TestControllerUnsupported(t *testing.T) {
	device := testutil.NewFakeDevice()
	device.Unsupported = true
	c, _ := newController(t, device)

	var reported error
	c.OnError = func(err error) { reported = err }

	err := c.Start(context.Background())
	if voiceerr.KindOf(err) != voiceerr.Unsupported {
		t.Fatalf("Start() error kind = %v, want unsupported", voiceerr.KindOf(err))
	}
	if voiceerr.MessageOf(c.Err()) != "Audio recording is not supported in this environment." {
		t.Errorf("Err() message = %q", voiceerr.MessageOf(c.Err()))
	}
	if reported == nil {
		t.Error("OnError not called")
	}
	if c.State() != recording.Idle {
		t.Errorf("state = %s, want idle", c.State())
	}
	if device.Opened() != 0 {
		t.Error("unsupported device should never be opened")
	}
	if c.Supported() {
		t.Error("Supported() should be false")
	}
}

func TestControllerOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind voiceerr.Kind
		msg  string
	}{
		{"permission", fmt.Errorf("open: %w", recording.ErrPermission), voiceerr.PermissionDenied,
			"Microphone permission denied. Please allow access to your microphone."},
		{"not found", recording.ErrNoDevice, voiceerr.DeviceNotFound,
			"No microphone found. Please connect a microphone and try again."},
		{"busy", syscall.EBUSY, voiceerr.DeviceBusy,
			"Microphone is already in use by another application."},
		{"other", errors.New("driver crashed"), voiceerr.DeviceOther, "driver crashed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			device := testutil.NewFakeDevice()
			device.OpenErr = tc.err
			c, clk := newController(t, device)

			err := c.Start(context.Background())
			if voiceerr.KindOf(err) != tc.kind {
				t.Errorf("kind = %v, want %v", voiceerr.KindOf(err), tc.kind)
			}
			if voiceerr.MessageOf(c.Err()) != tc.msg {
				t.Errorf("message = %q, want %q", voiceerr.MessageOf(c.Err()), tc.msg)
			}
			if c.State() != recording.Idle {
				t.Errorf("state = %s, want idle", c.State())
			}
			if clk.Running() {
				t.Error("clock must not run after a failed start")
			}
		})
	}
}

func TestControllerDeviceFailure(t *testing.T) {
	device := testutil.NewFakeDevice()
	c, clk := newController(t, device)

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	capture := device.Last()
	capture.Emit([]byte("partial"))
	capture.Fail(syscall.ENODEV)

	a, err := drain(t, c)
	if a != nil {
		t.Error("failure must not produce an artifact")
	}
	if voiceerr.KindOf(err) != voiceerr.DeviceNotFound {
		t.Errorf("error kind = %v, want device not found", voiceerr.KindOf(err))
	}
	if c.State() != recording.Idle {
		t.Errorf("state = %s, want idle", c.State())
	}
	if clk.Running() {
		t.Error("clock should stop on device failure")
	}
	if capture.Releases() == 0 {
		t.Error("device should be released on failure")
	}
}

func TestControllerNoOps(t *testing.T) {
	device := testutil.NewFakeDevice()
	c, _ := newController(t, device)

	if c.Pause() || c.Resume() || c.Stop() {
		t.Error("pause/resume/stop should be no-ops while idle")
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.Resume() {
		t.Error("Resume() should be a no-op while recording")
	}
	c.Pause()
	if c.Pause() {
		t.Error("second Pause() should be a no-op")
	}
	if device.Last().Pauses() != 1 {
		t.Errorf("device paused %d times, want 1", device.Last().Pauses())
	}
}

func TestControllerStopFromPaused(t *testing.T) {
	device := testutil.NewFakeDevice()
	device.AutoAck = true
	c, _ := newController(t, device)

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	device.Last().Emit([]byte("x"))
	c.Pause()
	if !c.Stop() {
		t.Fatal("Stop() from paused should succeed")
	}
	a, _ := drain(t, c)
	if a == nil {
		t.Fatal("expected artifact")
	}
}

func TestControllerRestartReleasesPrevious(t *testing.T) {
	device := testutil.NewFakeDevice()
	c, _ := newController(t, device)

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := device.Last()
	first.Emit([]byte("old"))

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if first.Releases() == 0 {
		t.Error("previous capture should be released")
	}
	if device.Opened() != 2 {
		t.Errorf("opened = %d, want 2", device.Opened())
	}
	if c.Snapshot().Chunks != 0 {
		t.Error("chunks from the previous capture should be dropped")
	}
}

func TestControllerClear(t *testing.T) {
	device := testutil.NewFakeDevice()
	device.AutoAck = true
	c, _ := newController(t, device)

	// safe before anything happened
	c.Clear()

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	device.Last().Emit([]byte("a"))
	c.Tick()
	c.Stop()
	drain(t, c)

	if c.Artifact() == nil {
		t.Fatal("expected artifact before Clear")
	}
	c.Clear()
	if c.Artifact() != nil || c.Elapsed() != 0 || c.Err() != nil {
		t.Errorf("Clear() left state: %+v", c.Snapshot())
	}
	if c.State() != recording.Idle {
		t.Errorf("state after Clear = %s, want idle", c.State())
	}
}

func TestControllerClearWhileRecording(t *testing.T) {
	device := testutil.NewFakeDevice()
	c, clk := newController(t, device)

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	c.Tick()
	c.Clear()

	if c.State() != recording.Capturing {
		t.Errorf("state = %s, Clear must not stop an open capture", c.State())
	}
	if c.Elapsed() != 0 {
		t.Errorf("elapsed = %d, want 0", c.Elapsed())
	}
	if !clk.Running() {
		t.Error("clock should keep running")
	}
}

func TestControllerRelease(t *testing.T) {
	device := testutil.NewFakeDevice()
	c, clk := newController(t, device)

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	capture := device.Last()
	c.Release()

	if clk.Running() {
		t.Error("clock should stop on Release")
	}
	if capture.Releases() != 1 {
		t.Errorf("releases = %d, want 1", capture.Releases())
	}
	if c.Events() != nil {
		t.Error("Events() should be nil after Release")
	}
	if c.State() != recording.Idle {
		t.Errorf("state = %s, want idle", c.State())
	}
	if c.Artifact() != nil {
		t.Error("Release must not produce an artifact")
	}
}

package daemon_test

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wardscribe/voicepanel/internal/bus"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/daemon"
	"github.com/wardscribe/voicepanel/internal/notify"
	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/testutil"
	"github.com/wardscribe/voicepanel/internal/transcriber"
)

type fixture struct {
	daemon   *daemon.Daemon
	manager  *config.Manager
	device   *testutil.FakeDevice
	backend  *testutil.FakeBackend
	injector *testutil.MockInjector
	notifier *testutil.MockNotifier
}

func startDaemon(t *testing.T, setup func(f *fixture)) *fixture {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.SaveTo(path, testutil.TestConfig()); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	mgr, err := config.NewManagerAt(path)
	if err != nil {
		t.Fatalf("NewManagerAt: %v", err)
	}

	f := &fixture{
		manager:  mgr,
		device:   testutil.NewFakeDevice(),
		backend:  testutil.NewFakeBackend("Wound healing well, no signs of infection."),
		injector: testutil.NewMockInjector(),
		notifier: testutil.NewMockNotifier(),
	}
	f.device.AutoAck = true
	if setup != nil {
		setup(f)
	}

	f.daemon = daemon.New(mgr, daemon.Options{
		Device:   f.device,
		Backend:  f.backend,
		Injector: f.injector,
		Notifier: f.notifier,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- f.daemon.Run()
	}()

	// Wait for daemon to be ready by trying to connect
	maxAttempts := 100
	for i := range maxAttempts {
		if _, err := bus.SendCommand(bus.CmdStatus); err == nil {
			break
		}
		if i == maxAttempts-1 {
			t.Fatal("daemon failed to start within timeout")
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Cleanup(func() {
		bus.SendCommand(bus.CmdQuit)
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(3 * time.Second):
			t.Error("daemon did not exit within timeout")
		}
	})
	return f
}

func send(t *testing.T, cmd byte) string {
	t.Helper()
	out, err := bus.SendCommand(cmd)
	if err != nil {
		t.Fatalf("command %c failed: %v", cmd, err)
	}
	return out
}

func status(t *testing.T) bus.Status {
	t.Helper()
	resp, err := bus.ParseResponse(send(t, bus.CmdStatus))
	if err != nil {
		t.Fatal(err)
	}
	s, err := bus.ParseStatus(resp.Body)
	if err != nil {
		t.Fatalf("ParseStatus(%q): %v", resp.Body, err)
	}
	return s
}

func waitStatus(t *testing.T, phase string) bus.Status {
	t.Helper()
	var last bus.Status
	testutil.WaitForCondition(t, func() bool {
		last = status(t)
		return last.Phase == phase
	}, 2*time.Second)
	return last
}

func TestToggleAndDone(t *testing.T) {
	f := startDaemon(t, nil)

	if out := send(t, bus.CmdToggle); out != "OK recording\n" {
		t.Fatalf("first toggle = %q", out)
	}
	if s := status(t); s.Phase != "recording" || s.Format != "audio/webm" {
		t.Errorf("status = %+v", s)
	}

	f.device.Last().Emit([]byte("opus"))
	if out := send(t, bus.CmdToggle); out != "OK stopping\n" {
		t.Fatalf("second toggle = %q", out)
	}

	s := waitStatus(t, "transcribed")
	if s.Transcript != "Wound healing well, no signs of infection." {
		t.Errorf("transcript = %q", s.Transcript)
	}

	if out := send(t, bus.CmdDone); out != "OK cancelled\n" {
		t.Errorf("done = %q", out)
	}
	texts := f.injector.GetInjectedTexts()
	if len(texts) != 1 || texts[0] != "Wound healing well, no signs of infection." {
		t.Errorf("injected = %q", texts)
	}

	if s := status(t); s.Phase != "idle" {
		t.Errorf("status after done = %+v, want idle", s)
	}

	// a new toggle starts a fresh session
	if out := send(t, bus.CmdToggle); out != "OK recording\n" {
		t.Errorf("toggle after done = %q", out)
	}
	if f.device.Opened() != 2 {
		t.Errorf("device opened %d times, want 2", f.device.Opened())
	}
}

func TestCancelDoesNotInject(t *testing.T) {
	f := startDaemon(t, nil)

	send(t, bus.CmdToggle)
	send(t, bus.CmdToggle)
	waitStatus(t, "transcribed")

	if out := send(t, bus.CmdCancel); out != "OK cancelled\n" {
		t.Errorf("cancel = %q", out)
	}
	if texts := f.injector.GetInjectedTexts(); len(texts) != 0 {
		t.Errorf("cancel injected %q", texts)
	}
	if f.notifier.Count(notify.MsgCancelled) != 1 {
		t.Errorf("notifications = %v", f.notifier.Sent())
	}
}

func TestPauseCommand(t *testing.T) {
	startDaemon(t, nil)

	if out := send(t, bus.CmdPause); out != "ERR no active session\n" {
		t.Errorf("pause without session = %q", out)
	}

	send(t, bus.CmdToggle)
	if out := send(t, bus.CmdPause); out != "OK paused\n" {
		t.Errorf("pause = %q", out)
	}
	if out := send(t, bus.CmdPause); out != "OK recording\n" {
		t.Errorf("resume = %q", out)
	}
}

func TestRetryCommand(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	startDaemon(t, func(f *fixture) {
		f.backend.TranscribeFunc = func(ctx context.Context, a *recording.Artifact) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls == 1 {
				return "", &transcriber.StatusError{StatusCode: 401}
			}
			return "Retried transcript.", nil
		}
	})

	if out := send(t, bus.CmdRetry); out != "ERR nothing to retry\n" {
		t.Errorf("retry without session = %q", out)
	}

	send(t, bus.CmdToggle)
	send(t, bus.CmdToggle)
	s := waitStatus(t, "transcription_failed")
	if !s.Retry || s.Error != "Invalid API key. Please check your API key." {
		t.Errorf("status = %+v", s)
	}

	if out := send(t, bus.CmdRetry); out != "OK transcribing\n" {
		t.Errorf("retry = %q", out)
	}
	s = waitStatus(t, "transcribed")
	if s.Transcript != "Retried transcript." || s.Retry {
		t.Errorf("status after retry = %+v", s)
	}

	if out := send(t, bus.CmdRetry); out != "ERR nothing to retry\n" {
		t.Errorf("retry after success = %q", out)
	}
}

func TestToggleWithUnsupportedDevice(t *testing.T) {
	startDaemon(t, func(f *fixture) {
		f.device.Unsupported = true
	})

	out := send(t, bus.CmdToggle)
	if out != "ERR Audio recording is not supported in this environment.\n" {
		t.Errorf("toggle = %q", out)
	}

	s := status(t)
	if s.Phase != "idle" || s.Error == "" || s.Retry {
		t.Errorf("status = %+v", s)
	}
}

func TestVersionAndUnknownCommands(t *testing.T) {
	startDaemon(t, nil)

	out := send(t, bus.CmdVersion)
	if !strings.HasPrefix(out, "STATUS proto="+bus.ProtoVer) {
		t.Errorf("version = %q", out)
	}

	if out := send(t, 'x'); out != "ERR unknown='x'\n" {
		t.Errorf("unknown = %q", out)
	}
}

func TestSecondDaemonRefused(t *testing.T) {
	f := startDaemon(t, nil)

	other := daemon.New(f.manager, daemon.Options{Device: f.device, Backend: f.backend})
	defer other.Shutdown()
	if err := other.Run(); err == nil {
		t.Error("second daemon should refuse to start")
	}
}

func TestConfigReloadNotifies(t *testing.T) {
	f := startDaemon(t, nil)

	cfg := f.manager.GetConfig()
	cfg.Transcription.Language = "de"
	if err := config.SaveTo(f.manager.Path(), cfg); err != nil {
		t.Fatal(err)
	}
	if !f.manager.Reload() {
		t.Fatal("Reload() = false")
	}

	testutil.WaitForCondition(t, func() bool {
		return f.notifier.Count(notify.MsgConfigReloaded) >= 1
	}, 2*time.Second)
}

package daemon

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/wardscribe/voicepanel/internal/bus"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/injection"
	"github.com/wardscribe/voicepanel/internal/notify"
	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/session"
	"github.com/wardscribe/voicepanel/internal/transcriber"
)

// Version is reported by the 'v' command.
var Version = "dev"

const deliverTimeout = 10 * time.Second

// Options replace the collaborators the daemon would otherwise build from
// config. Nil fields use the configured implementation.
type Options struct {
	Device   recording.Device
	Backend  transcriber.Backend
	Injector injection.Injector
	Notifier notify.Notifier
}

// Daemon owns at most one voice session at a time and serves bus commands
// against it. A session that was closed by done or cancel is replaced on the
// next toggle.
type Daemon struct {
	mu        sync.Mutex
	configMgr *config.Manager
	opts      Options
	notifier  notify.Notifier

	ctx    context.Context
	cancel context.CancelFunc

	session *session.Coordinator
}

func New(configMgr *config.Manager, opts Options) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		configMgr: configMgr,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
	}
	d.notifier = d.notifierFor(configMgr.GetConfig())

	configMgr.OnReload(func(cfg *config.Config) {
		d.mu.Lock()
		d.notifier = d.notifierFor(cfg)
		n := d.notifier
		d.mu.Unlock()
		log.Printf("Daemon: configuration reloaded, changes apply to the next session")
		n.Send(notify.MsgConfigReloaded)
	})
	return d
}

func (d *Daemon) notifierFor(cfg *config.Config) notify.Notifier {
	if d.opts.Notifier != nil {
		return d.opts.Notifier
	}
	return cfg.ToNotifier()
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	if err := d.configMgr.StartWatching(d.ctx); err != nil {
		log.Printf("Daemon: config hot reload disabled: %v", err)
	}
	defer d.configMgr.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("Received signal %v, shutting down gracefully", sig)
			d.cancel()
		case <-d.ctx.Done():
		}
	}()

	// Close the listener when context is done
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	defer d.closeSession()

	log.Printf("Daemon started, listening on socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("Shutdown requested")
				return nil
			}
			log.Printf("Accept error: %v", err)
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

// Shutdown stops Run.
func (d *Daemon) Shutdown() {
	d.cancel()
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		log.Printf("Client read error: %v", err)
		fmt.Fprint(c, bus.Err(fmt.Sprintf("read_error: %v", err)))
		return
	}
	if len(line) == 0 || line[0] == '\n' {
		fmt.Fprint(c, bus.Err("empty"))
		return
	}

	fmt.Fprint(c, d.execute(line[0]))
}

// execute runs one bus command and returns the reply line.
func (d *Daemon) execute(cmd byte) string {
	switch cmd {
	case bus.CmdToggle:
		s, err := d.current(true)
		if err != nil {
			return bus.Err(err.Error())
		}
		return reply(s.ToggleRecording())

	case bus.CmdPause:
		s, _ := d.current(false)
		if s == nil {
			return bus.Err("no active session")
		}
		snap := s.TogglePause()
		if snap.Phase != session.Recording && snap.Phase != session.Paused {
			return bus.Err("not recording")
		}
		return reply(snap)

	case bus.CmdRetry:
		s, _ := d.current(false)
		if s == nil || !s.Snapshot().CanRetry {
			return bus.Err("nothing to retry")
		}
		return reply(s.Retry())

	case bus.CmdDone:
		s, _ := d.current(false)
		if s == nil {
			return bus.Err("no active session")
		}
		snap := s.Done()
		<-s.Closed()
		return bus.OK(string(snap.Phase))

	case bus.CmdCancel:
		s, _ := d.current(false)
		if s == nil {
			return bus.Err("no active session")
		}
		snap := s.Cancel()
		<-s.Closed()
		return bus.OK(string(snap.Phase))

	case bus.CmdStatus:
		return bus.StatusLine(d.Status())

	case bus.CmdVersion:
		return fmt.Sprintf("%s proto=%s version=%s\n", bus.ReplyStatus, bus.ProtoVer, Version)

	case bus.CmdQuit:
		d.cancel()
		return bus.OK("quitting")
	}

	log.Printf("Unknown command: %c", cmd)
	return bus.Err(fmt.Sprintf("unknown=%q", cmd))
}

func reply(snap session.Snapshot) string {
	if snap.Err != nil && !snap.CanRetry {
		return bus.Err(snap.ErrMessage())
	}
	return bus.OK(string(snap.Phase))
}

// Status summarizes the current session, or an idle one.
func (d *Daemon) Status() bus.Status {
	s, _ := d.current(false)
	if s == nil {
		return bus.Status{Phase: string(session.Idle)}
	}
	snap := s.Snapshot()
	return bus.Status{
		Phase:      string(snap.Phase),
		Elapsed:    snap.Elapsed,
		Format:     snap.Format,
		Transcript: snap.Transcript,
		Error:      snap.ErrMessage(),
		Retry:      snap.CanRetry,
	}
}

// current returns the live session. With create set, a new one is built from
// the current config when there is none.
func (d *Daemon) current(create bool) (*session.Coordinator, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		select {
		case <-d.session.Closed():
			d.session = nil
		default:
			return d.session, nil
		}
	}
	if !create {
		return nil, nil
	}

	s, err := d.newSession(d.configMgr.GetConfig())
	if err != nil {
		log.Printf("Daemon: failed to create session: %v", err)
		d.notifier.Error(err.Error())
		return nil, err
	}
	d.session = s
	return s, nil
}

func (d *Daemon) newSession(cfg *config.Config) (*session.Coordinator, error) {
	var device recording.Device = d.opts.Device
	if device == nil {
		device = cfg.ToPipeWireDevice()
	}

	backend := d.opts.Backend
	if backend == nil {
		var err error
		backend, err = transcriber.NewBackend(cfg.ToTranscriberConfig())
		if err != nil {
			return nil, fmt.Errorf("transcriber: %w", err)
		}
	}

	injector := d.opts.Injector
	if injector == nil {
		injector = injection.NewInjector(cfg.ToInjectionConfig())
	}

	ctrl := recording.NewController(device, cfg.ToRecordingConfig(), nil)
	client := transcriber.NewClient(backend)
	h := &host{ctx: d.ctx, injector: injector, notifier: d.notifier}

	s := session.New(ctrl, client, h, d.notifier, session.Options{MaxDuration: cfg.Recording.Timeout})
	s.Run(d.ctx)
	log.Printf("Daemon: new session (provider=%s, format=%s)", backend.Name(), cfg.Recording.PreferredFormat)
	return s, nil
}

func (d *Daemon) closeSession() {
	d.mu.Lock()
	s := d.session
	d.session = nil
	d.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

// host delivers transcripts into the focused application.
type host struct {
	ctx      context.Context
	injector injection.Injector
	notifier notify.Notifier
}

func (h *host) DeliverTranscript(text string) {
	ctx, cancel := context.WithTimeout(h.ctx, deliverTimeout)
	defer cancel()
	if err := h.injector.Inject(ctx, text); err != nil {
		log.Printf("Daemon: transcript delivery failed: %v", err)
		h.notifier.Error(fmt.Sprintf("Could not deliver transcript: %v", err))
	}
}

func (h *host) Close() {
	log.Printf("Daemon: session closed")
}

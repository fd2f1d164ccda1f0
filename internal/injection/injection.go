package injection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Injector delivers a finished transcript to whatever the user is editing.
type Injector interface {
	Inject(ctx context.Context, text string) error
}

// Backend is one way of getting text into the focused application.
type Backend interface {
	Name() string
	Available() error
	Inject(ctx context.Context, text string, timeout time.Duration) error
}

// Config for text injection
type Config struct {
	Backends         []string // tried in order, first success wins
	YdotoolTimeout   time.Duration
	WtypeTimeout     time.Duration
	ClipboardTimeout time.Duration
}

// DefaultConfig returns sensible defaults for injection
func DefaultConfig() Config {
	return Config{
		Backends:         []string{"wtype", "clipboard"},
		YdotoolTimeout:   5 * time.Second,
		WtypeTimeout:     5 * time.Second,
		ClipboardTimeout: 3 * time.Second,
	}
}

type injector struct {
	config   Config
	backends []Backend
}

// NewInjector creates a new injector with the given config. Unknown backend
// names are skipped with a log line.
func NewInjector(config Config) Injector {
	var backends []Backend
	for _, name := range config.Backends {
		b := NewBackend(name)
		if b == nil {
			log.Printf("Injection: unknown backend %q, skipping", name)
			continue
		}
		backends = append(backends, b)
	}
	return &injector{config: config, backends: backends}
}

// NewInjectorWithBackends is used by tests to supply fake backends.
func NewInjectorWithBackends(config Config, backends ...Backend) Injector {
	return &injector{config: config, backends: backends}
}

func NewBackend(name string) Backend {
	switch name {
	case "wtype":
		return NewWtypeBackend()
	case "ydotool":
		return NewYdotoolBackend()
	case "clipboard":
		return NewClipboardBackend()
	default:
		return nil
	}
}

func (i *injector) timeoutFor(name string) time.Duration {
	var d time.Duration
	switch name {
	case "wtype":
		d = i.config.WtypeTimeout
	case "ydotool":
		d = i.config.YdotoolTimeout
	case "clipboard":
		d = i.config.ClipboardTimeout
	}
	if d <= 0 {
		d = 5 * time.Second
	}
	return d
}

// Inject tries each backend in order and returns on the first success.
func (i *injector) Inject(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("cannot inject empty text")
	}
	if len(i.backends) == 0 {
		return fmt.Errorf("no injection backends configured")
	}

	var errs []error
	for _, b := range i.backends {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.Inject(ctx, text, i.timeoutFor(b.Name())); err != nil {
			log.Printf("Injection: %s failed: %v", b.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		log.Printf("Injection: delivered %d chars via %s", len(text), b.Name())
		return nil
	}
	return fmt.Errorf("all injection backends failed: %w", errors.Join(errs...))
}

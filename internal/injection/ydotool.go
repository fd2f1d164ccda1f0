package injection

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ydotoolBackend types through the uinput daemon, which reaches editors
// that ignore the Wayland virtual keyboard.
type ydotoolBackend struct {
	socketPath func() string
}

func NewYdotoolBackend() Backend {
	return &ydotoolBackend{socketPath: findYdotoolSocket}
}

func (y *ydotoolBackend) Name() string {
	return "ydotool"
}

func (y *ydotoolBackend) Available() error {
	if _, err := exec.LookPath("ydotool"); err != nil {
		return fmt.Errorf("ydotool not installed: %w", err)
	}
	if _, err := exec.LookPath("ydotoold"); err != nil {
		return nil
	}

	sock := y.socketPath()
	if sock == "" {
		return fmt.Errorf("ydotoold is installed but its socket is missing; start ydotoold")
	}
	return probeSocket(sock)
}

// probeSocket dials the daemon socket. Newer ydotoold listens on a datagram
// socket, older releases on a stream socket.
func probeSocket(path string) error {
	for _, network := range []string{"unixgram", "unix"} {
		conn, err := net.DialTimeout(network, path, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("ydotoold not answering on %s", path)
}

func findYdotoolSocket() string {
	var candidates []string
	if sock := os.Getenv("YDOTOOL_SOCKET"); sock != "" {
		candidates = append(candidates, sock)
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, ".ydotool_socket"))
	}
	candidates = append(candidates,
		filepath.Join("/run/user", strconv.Itoa(os.Getuid()), ".ydotool_socket"),
		"/tmp/.ydotool_socket",
	)

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (y *ydotoolBackend) Inject(ctx context.Context, text string, timeout time.Duration) error {
	if err := y.Available(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "ydotool", "type", "--", text).CombinedOutput()
	if err != nil {
		return fmt.Errorf("ydotool type: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

package deps

import (
	"os/exec"
	"strings"
)

// Status represents the installation status of a dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

// Tool is an external program voicepanel shells out to.
type Tool struct {
	Name        string
	VersionFlag string // empty when the tool has no version flag
	Purpose     string
	Required    bool
}

// Tools lists every program the daemon may run, capture first.
var Tools = []Tool{
	{Name: "pw-record", VersionFlag: "--version", Purpose: "microphone capture (PipeWire)", Required: true},
	{Name: "pw-cli", VersionFlag: "--version", Purpose: "PipeWire availability check", Required: true},
	{Name: "wtype", Purpose: "type transcripts into Wayland windows"},
	{Name: "ydotool", Purpose: "type transcripts into Chromium/Electron editors"},
	{Name: "ydotoold", Purpose: "ydotool daemon"},
	{Name: "wl-copy", VersionFlag: "--version", Purpose: "copy transcripts to the clipboard"},
	{Name: "notify-send", VersionFlag: "--version", Purpose: "desktop notifications"},
}

// Check looks name up in PATH and, when versionFlag is set, records the
// first line the tool prints for it.
func Check(name, versionFlag string) Status {
	path, err := exec.LookPath(name)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	if versionFlag == "" {
		return status
	}
	output, err := exec.Command(path, versionFlag).Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}

// CheckAll checks every entry of tools, in order.
func CheckAll(tools []Tool) []Status {
	statuses := make([]Status, len(tools))
	for i, t := range tools {
		statuses[i] = Check(t.Name, t.VersionFlag)
	}
	return statuses
}

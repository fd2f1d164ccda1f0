package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wardscribe/voicepanel/internal/bus"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/daemon"
	"github.com/wardscribe/voicepanel/internal/deps"
	"github.com/wardscribe/voicepanel/internal/provider"
	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/transcriber"
	"github.com/wardscribe/voicepanel/internal/tui"
	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "voicepanel",
	Short:        "Dictation for clinical documentation",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		busCmd("toggle", "Start a new recording, or stop the current one", bus.CmdToggle, "toggle recording"),
		busCmd("pause", "Pause or resume the current recording", bus.CmdPause, "toggle pause"),
		busCmd("retry", "Retry the last failed transcription", bus.CmdRetry, "retry transcription"),
		busCmd("done", "Insert the transcript and close the session", bus.CmdDone, "finish session"),
		busCmd("cancel", "Discard the session without inserting anything", bus.CmdCancel, "cancel session"),
		busCmd("stop", "Stop the daemon", bus.CmdQuit, "stop daemon"),
		statusCmd(),
		versionCmd(),
		transcribeCmd(),
		configureCmd(),
		formatsCmd(),
		doctorCmd(),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := config.NewManager()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return daemon.New(mgr, daemon.Options{}).Run()
		},
	}
}

// busCmd builds a command that sends one byte to the daemon and prints the
// reply. An ERR reply makes the command fail.
func busCmd(use, short string, c byte, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCmd(c, action)
		},
	}
}

func sendCmd(c byte, action string) error {
	resp, err := bus.SendCommand(c)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	fmt.Print(resp)
	if r, err := bus.ParseResponse(resp); err == nil && r.IsErr() {
		return fmt.Errorf("failed to %s: %s", action, r.Body)
	}
	return nil
}

func statusCmd() *cobra.Command {
	var watch, raw bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return tui.RunMonitor(interval)
			}
			if raw {
				resp, err := bus.SendCommand(bus.CmdStatus)
				if err != nil {
					return fmt.Errorf("failed to get status: %w", err)
				}
				fmt.Print(resp)
				return nil
			}
			s, err := bus.QueryStatus()
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}
			fmt.Println(tui.RenderStatus(s))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Open a live panel with key controls")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the protocol status line")
	cmd.Flags().DurationVar(&interval, "interval", 250*time.Millisecond, "Refresh interval for --watch")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client and daemon versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("client version=%s proto=%s\n", daemon.Version, bus.ProtoVer)
			resp, err := bus.SendCommand(bus.CmdVersion)
			if err != nil {
				fmt.Println("daemon not running")
				return nil
			}
			fmt.Print("daemon ", resp)
			return nil
		},
	}
}

func transcribeCmd() *cobra.Command {
	var providerName, model, language string

	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe an audio file with the configured provider",
		Long: `Transcribe a recorded audio file once and print the text.
The format is taken from the file extension (` + knownExtensions() + `).
The daemon is not involved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd.Context(), cmd.OutOrStdout(), args[0], providerName, model, language)
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "Override transcription.provider ("+strings.Join(provider.ListProviders(), ", ")+")")
	cmd.Flags().StringVar(&model, "model", "", "Override transcription.model")
	cmd.Flags().StringVar(&language, "language", "", "Override transcription.language")

	return cmd
}

func knownExtensions() string {
	seen := make(map[string]bool)
	var exts []string
	for _, f := range recording.DefaultFormats {
		if !seen[f.Ext] {
			seen[f.Ext] = true
			exts = append(exts, "."+f.Ext)
		}
	}
	return strings.Join(exts, ", ")
}

func runTranscribe(ctx context.Context, out io.Writer, path, providerName, model, language string) error {
	format, ok := recording.FormatForExt(filepath.Ext(path))
	if !ok {
		return fmt.Errorf("unsupported audio file %s (expected %s)", path, knownExtensions())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return fmt.Errorf("audio file %s is empty", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if providerName != "" {
		cfg.Transcription.Provider = providerName
		cfg.Transcription.Model = ""
		cfg.Transcription.BaseURL = ""
	}
	if model != "" {
		cfg.Transcription.Model = model
	}
	if language != "" {
		cfg.Transcription.Language = language
	}

	client, err := transcriber.New(cfg.ToTranscriberConfig())
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	artifact := recording.NewArtifact(format, [][]byte{data}, 0)
	text, err := client.Transcribe(ctx, artifact)
	if err != nil {
		return fmt.Errorf("transcription failed: %s", voiceerr.MessageOf(err))
	}

	fmt.Fprintln(out, text)
	return nil
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard for voicepanel.
This will guide you through setting up:
- The transcription provider (documentation backend, ElevenLabs, OpenAI, Groq)
- Provider API keys and language
- Keywords, transcript delivery and notification preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	fmt.Println()

	showNextSteps(result.Config)

	return nil
}

func showNextSteps(cfg *config.Config) {
	serviceRunning := false
	if err := exec.Command("systemctl", "--user", "is-active", "--quiet", "voicepanel.service").Run(); err == nil {
		serviceRunning = true
	}

	hasYdotool := false
	for _, b := range cfg.Injection.Backends {
		if b == "ydotool" {
			hasYdotool = true
			break
		}
	}

	fmt.Println("Next Steps:")
	step := 1
	if hasYdotool {
		fmt.Printf("%d. Ensure ydotoold is running\n", step)
		step++
	}
	if !serviceRunning {
		fmt.Printf("%d. Start the daemon: voicepanel serve (or systemctl --user start voicepanel.service)\n", step)
	} else {
		fmt.Printf("%d. Changes apply to the next recording; no restart needed\n", step)
	}
	step++
	fmt.Printf("%d. Test dictation: voicepanel toggle, speak, voicepanel toggle, voicepanel done\n", step)
	fmt.Println()

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
}

func formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List recording formats and which one will be used",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			device := cfg.ToPipeWireDevice()

			if err := recording.CheckPipeWireAvailable(cmd.Context()); err != nil {
				fmt.Printf("capture unavailable: %v\n\n", err)
			}

			selected := recording.SelectFormat(cfg.Recording.PreferredFormat, recording.DefaultFormats, device.SupportsFormat)
			for _, f := range recording.DefaultFormats {
				mark := "  "
				if f == selected {
					mark = "=>"
				}
				support := "unsupported"
				if device.SupportsFormat(f.MIME) {
					support = "supported"
				}
				fmt.Printf("%s %-24s .%-5s %s\n", mark, f.MIME, f.Ext, support)
			}
			fmt.Printf("\npreferred: %s\n", cfg.Recording.PreferredFormat)
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the external programs voicepanel relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.OutOrStdout(), deps.Tools)
		},
	}
}

// runDoctor prints one line per tool and fails when a required one is missing.
func runDoctor(out io.Writer, tools []deps.Tool) error {
	var missing []string
	for i, status := range deps.CheckAll(tools) {
		t := tools[i]
		switch {
		case status.Installed && status.Version != "":
			fmt.Fprintf(out, "ok       %-12s %s (%s)\n", t.Name, status.Version, t.Purpose)
		case status.Installed:
			fmt.Fprintf(out, "ok       %-12s %s (%s)\n", t.Name, status.Path, t.Purpose)
		case t.Required:
			fmt.Fprintf(out, "missing  %-12s %s\n", t.Name, t.Purpose)
			missing = append(missing, t.Name)
		default:
			fmt.Fprintf(out, "absent   %-12s %s (optional)\n", t.Name, t.Purpose)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required programs: %s", strings.Join(missing, ", "))
	}
	return nil
}

package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/recording"
)

// AdvancedSection represents a section in the advanced settings menu
type AdvancedSection string

const (
	AdvancedRecording        AdvancedSection = "recording"
	AdvancedTranscription    AdvancedSection = "transcription"
	AdvancedInjectionTimeout AdvancedSection = "injection_timeout"
	AdvancedBack             AdvancedSection = "back"
)

// editAdvanced handles the advanced settings submenu
func editAdvanced(cfg *config.Config) error {
	for {
		options := []huh.Option[AdvancedSection]{
			huh.NewOption(formatAdvancedRecordingLabel(cfg), AdvancedRecording),
			huh.NewOption(formatAdvancedTranscriptionLabel(cfg), AdvancedTranscription),
			huh.NewOption(formatAdvancedInjectionTimeoutLabel(cfg), AdvancedInjectionTimeout),
			huh.NewOption("Back to Main Menu", AdvancedBack),
		}

		var selected AdvancedSection
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[AdvancedSection]().
					Title("Advanced Settings").
					Description("Configure low-level options").
					Options(options...).
					Value(&selected),
			),
		).WithTheme(getTheme())

		if err := form.Run(); err != nil {
			return err
		}

		var err error
		switch selected {
		case AdvancedBack:
			return nil
		case AdvancedRecording:
			err = editRecording(cfg)
		case AdvancedTranscription:
			err = editTranscriptionTimeout(cfg)
		case AdvancedInjectionTimeout:
			err = editInjectionTimeouts(cfg)
		}
		if err != nil {
			continue
		}
	}
}

func formatAdvancedRecordingLabel(cfg *config.Config) string {
	return fmt.Sprintf("Recording Settings (format=%s, max=%s)", cfg.Recording.PreferredFormat, cfg.Recording.Timeout)
}

func formatAdvancedTranscriptionLabel(cfg *config.Config) string {
	return fmt.Sprintf("Transcription Timeout (%s)", cfg.Transcription.Timeout)
}

func formatAdvancedInjectionTimeoutLabel(cfg *config.Config) string {
	return fmt.Sprintf("Injection Timeouts (ydotool=%s, wtype=%s, clipboard=%s)",
		cfg.Injection.YdotoolTimeout, cfg.Injection.WtypeTimeout, cfg.Injection.ClipboardTimeout)
}

func validateInt(s string) error {
	if n, err := strconv.Atoi(s); err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func validateDuration(s string) error {
	if d, err := time.ParseDuration(s); err != nil || d <= 0 {
		return fmt.Errorf("invalid duration format (use '30s', '2m', etc.)")
	}
	return nil
}

func formatOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(recording.DefaultFormats))
	for i, f := range recording.DefaultFormats {
		label := f.MIME
		if i == 0 {
			label += " - Recommended"
		}
		options = append(options, huh.NewOption(label, f.MIME))
	}
	return options
}

// editRecording handles the recording settings
func editRecording(cfg *config.Config) error {
	sampleRate := strconv.Itoa(cfg.Recording.SampleRate)
	channels := strconv.Itoa(cfg.Recording.Channels)
	format := cfg.Recording.PreferredFormat
	bitrate := strconv.Itoa(cfg.Recording.BitsPerSecond)
	interval := cfg.Recording.Interval.String()
	bufferSize := strconv.Itoa(cfg.Recording.BufferSize)
	channelBufferSize := strconv.Itoa(cfg.Recording.ChannelBufferSize)
	device := cfg.Recording.Device
	timeout := cfg.Recording.Timeout.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Preferred Format").
				Description("Used when the capture device supports it; otherwise the first supported fallback").
				Options(formatOptions()...).
				Value(&format),
			huh.NewInput().
				Title("Bitrate (bits/s)").
				Description("Encoder bitrate hint. 0 leaves it to the encoder.").
				Placeholder("128000").
				Value(&bitrate).
				Validate(validateInt),
			huh.NewInput().
				Title("Sample Rate (Hz)").
				Description("Audio sample rate. 16000 is optimal for speech recognition.").
				Placeholder("16000").
				Value(&sampleRate).
				Validate(validateInt),
			huh.NewSelect[string]().
				Title("Channels").
				Options(
					huh.NewOption("1 (Mono) - Recommended", "1"),
					huh.NewOption("2 (Stereo)", "2"),
				).
				Value(&channels),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Chunk Interval").
				Description("How often the encoder emits a chunk (e.g., '100ms')").
				Placeholder("100ms").
				Value(&interval).
				Validate(validateDuration),
			huh.NewInput().
				Title("Buffer Size (bytes)").
				Description("Read buffer size. Larger = less CPU, more latency.").
				Placeholder("8192").
				Value(&bufferSize).
				Validate(validateInt),
			huh.NewInput().
				Title("Channel Buffer Size").
				Description("Number of chunks to buffer.").
				Placeholder("30").
				Value(&channelBufferSize).
				Validate(validateInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Device").
				Description("PipeWire device name. Empty = default microphone.").
				Placeholder("(default)").
				Value(&device),
			huh.NewInput().
				Title("Maximum Recording Length").
				Description("Recording stops and transcribes automatically after this long (e.g., '2m', '5m').").
				Placeholder("5m").
				Value(&timeout).
				Validate(validateDuration),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Recording.PreferredFormat = format
	cfg.Recording.BitsPerSecond, _ = strconv.Atoi(bitrate)
	cfg.Recording.SampleRate, _ = strconv.Atoi(sampleRate)
	cfg.Recording.Channels, _ = strconv.Atoi(channels)
	cfg.Recording.Interval, _ = time.ParseDuration(interval)
	cfg.Recording.BufferSize, _ = strconv.Atoi(bufferSize)
	cfg.Recording.ChannelBufferSize, _ = strconv.Atoi(channelBufferSize)
	cfg.Recording.Device = device
	cfg.Recording.Timeout, _ = time.ParseDuration(timeout)

	return nil
}

func editTranscriptionTimeout(cfg *config.Config) error {
	timeout := cfg.Transcription.Timeout.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Transcription Timeout").
				Description("Upper bound for one transcription request (e.g., '60s')").
				Placeholder("60s").
				Value(&timeout).
				Validate(validateDuration),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Transcription.Timeout, _ = time.ParseDuration(timeout)
	return nil
}

// editInjectionTimeouts handles the injection timeout settings
func editInjectionTimeouts(cfg *config.Config) error {
	ydotoolTimeout := cfg.Injection.YdotoolTimeout.String()
	wtypeTimeout := cfg.Injection.WtypeTimeout.String()
	clipboardTimeout := cfg.Injection.ClipboardTimeout.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("ydotool Timeout").
				Description("Timeout for ydotool commands (e.g., '5s', '10s')").
				Placeholder("5s").
				Value(&ydotoolTimeout).
				Validate(validateDuration),
			huh.NewInput().
				Title("wtype Timeout").
				Description("Timeout for wtype commands (e.g., '5s', '10s')").
				Placeholder("5s").
				Value(&wtypeTimeout).
				Validate(validateDuration),
			huh.NewInput().
				Title("Clipboard Timeout").
				Description("Timeout for clipboard operations (e.g., '3s', '5s')").
				Placeholder("3s").
				Value(&clipboardTimeout).
				Validate(validateDuration),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Injection.YdotoolTimeout, _ = time.ParseDuration(ydotoolTimeout)
	cfg.Injection.WtypeTimeout, _ = time.ParseDuration(wtypeTimeout)
	cfg.Injection.ClipboardTimeout, _ = time.ParseDuration(clipboardTimeout)

	return nil
}

package config

import (
	"time"

	"github.com/wardscribe/voicepanel/internal/provider"
)

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	return &Config{
		Recording: RecordingConfig{
			SampleRate:        16000,
			Channels:          1,
			Device:            "",
			PreferredFormat:   "audio/webm",
			BitsPerSecond:     128000,
			Interval:          100 * time.Millisecond,
			BufferSize:        8192,
			ChannelBufferSize: 30,
			Timeout:           5 * time.Minute,
		},
		Transcription: TranscriptionConfig{
			Provider: provider.ProviderProxy,
			Language: "en",
			Model:    "",
			BaseURL:  "",
			Timeout:  60 * time.Second,
		},
		Injection: InjectionConfig{
			Backends:         []string{"wtype", "clipboard"},
			YdotoolTimeout:   5 * time.Second,
			WtypeTimeout:     5 * time.Second,
			ClipboardTimeout: 3 * time.Second,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Type:    "desktop",
		},
		Providers: make(map[string]ProviderConfig),
		Keywords:  nil,
	}
}

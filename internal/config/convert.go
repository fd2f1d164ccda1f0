package config

import (
	"os"

	"github.com/wardscribe/voicepanel/internal/injection"
	"github.com/wardscribe/voicepanel/internal/notify"
	"github.com/wardscribe/voicepanel/internal/provider"
	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/transcriber"
)

func (c *Config) ToRecordingConfig() recording.Config {
	config := recording.DefaultConfig()
	if c.Recording.PreferredFormat != "" {
		config.PreferredMIME = c.Recording.PreferredFormat
	}
	if c.Recording.BitsPerSecond > 0 {
		config.BitsPerSecond = c.Recording.BitsPerSecond
	}
	if c.Recording.Interval > 0 {
		config.Interval = c.Recording.Interval
	}
	config.SampleRate = c.Recording.SampleRate
	config.Channels = c.Recording.Channels
	config.Device = c.Recording.Device
	return config
}

// ToPipeWireDevice builds the capture device described by the recording section.
func (c *Config) ToPipeWireDevice() *recording.PipeWireDevice {
	d := recording.NewPipeWireDevice()
	if c.Recording.BufferSize > 0 {
		d.ReadSize = c.Recording.BufferSize
	}
	if c.Recording.ChannelBufferSize > 0 {
		d.EventBuffer = c.Recording.ChannelBufferSize
	}
	return d
}

func (c *Config) ToTranscriberConfig() transcriber.Config {
	config := transcriber.Config{
		Provider: c.Transcription.Provider,
		Language: c.Transcription.Language,
		Model:    c.Transcription.Model,
		BaseURL:  c.resolveBaseURL(),
		Keywords: c.Keywords,
		Timeout:  c.Transcription.Timeout,
	}

	config.APIKey = c.resolveAPIKeyForProvider(c.Transcription.Provider)

	return config
}

// resolveBaseURL returns the endpoint override. The proxy falls back to
// VOICEPANEL_API_BASE_URL and then the local default.
func (c *Config) resolveBaseURL() string {
	if c.Transcription.BaseURL != "" {
		return c.Transcription.BaseURL
	}
	if c.Transcription.Provider != provider.ProviderProxy {
		return ""
	}
	if env := os.Getenv(provider.EnvProxyBaseURL); env != "" {
		return env
	}
	return provider.DefaultProxyBaseURL
}

// resolveAPIKeyForProvider returns the API key for a provider from config, then env
func (c *Config) resolveAPIKeyForProvider(providerName string) string {
	if c.Providers != nil {
		if pc, ok := c.Providers[providerName]; ok && pc.APIKey != "" {
			return pc.APIKey
		}
	}

	if envVar := provider.EnvVarForProvider(providerName); envVar != "" {
		return os.Getenv(envVar)
	}

	return ""
}

func (c *Config) ToInjectionConfig() injection.Config {
	return injection.Config{
		Backends:         c.Injection.Backends,
		YdotoolTimeout:   c.Injection.YdotoolTimeout,
		WtypeTimeout:     c.Injection.WtypeTimeout,
		ClipboardTimeout: c.Injection.ClipboardTimeout,
	}
}

// ToNotifier returns the notifier selected by the notifications section.
func (c *Config) ToNotifier() notify.Notifier {
	if !c.Notifications.Enabled {
		return notify.Nop{}
	}
	return notify.New(c.Notifications.Type, c.Notifications.Messages.Resolve())
}

package config

import (
	"fmt"

	"github.com/wardscribe/voicepanel/internal/provider"
	"github.com/wardscribe/voicepanel/internal/recording"
)

func (c *Config) Validate() error {
	if c.Recording.SampleRate <= 0 {
		return fmt.Errorf("invalid recording.sample_rate: %d", c.Recording.SampleRate)
	}
	if c.Recording.Channels <= 0 {
		return fmt.Errorf("invalid recording.channels: %d", c.Recording.Channels)
	}
	if c.Recording.BufferSize <= 0 {
		return fmt.Errorf("invalid recording.buffer_size: %d", c.Recording.BufferSize)
	}
	if c.Recording.ChannelBufferSize <= 0 {
		return fmt.Errorf("invalid recording.channel_buffer_size: %d", c.Recording.ChannelBufferSize)
	}
	if c.Recording.Interval <= 0 {
		return fmt.Errorf("invalid recording.interval: %v", c.Recording.Interval)
	}
	if c.Recording.BitsPerSecond < 0 {
		return fmt.Errorf("invalid recording.bits_per_second: %d", c.Recording.BitsPerSecond)
	}
	if c.Recording.Timeout <= 0 {
		return fmt.Errorf("invalid recording.timeout: %v", c.Recording.Timeout)
	}
	if f := c.Recording.PreferredFormat; f != "" && !isKnownFormat(f) {
		return fmt.Errorf("invalid recording.preferred_format: %s", f)
	}

	if err := c.validateTranscription(); err != nil {
		return err
	}

	if len(c.Injection.Backends) == 0 {
		return fmt.Errorf("invalid injection.backends: empty (must have at least one backend)")
	}
	validBackends := map[string]bool{"ydotool": true, "wtype": true, "clipboard": true}
	for _, backend := range c.Injection.Backends {
		if !validBackends[backend] {
			return fmt.Errorf("invalid injection.backends: unknown backend %q (must be ydotool, wtype, or clipboard)", backend)
		}
	}
	if c.Injection.YdotoolTimeout <= 0 {
		return fmt.Errorf("invalid injection.ydotool_timeout: %v", c.Injection.YdotoolTimeout)
	}
	if c.Injection.WtypeTimeout <= 0 {
		return fmt.Errorf("invalid injection.wtype_timeout: %v", c.Injection.WtypeTimeout)
	}
	if c.Injection.ClipboardTimeout <= 0 {
		return fmt.Errorf("invalid injection.clipboard_timeout: %v", c.Injection.ClipboardTimeout)
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	return nil
}

func (c *Config) validateTranscription() error {
	name := c.Transcription.Provider
	if name == "" {
		return fmt.Errorf("invalid transcription.provider: empty")
	}
	p := provider.GetProvider(name)
	if p == nil {
		return fmt.Errorf("unsupported transcription.provider: %s (must be one of %v)", name, provider.ListProviders())
	}

	if p.RequiresAPIKey() {
		apiKey := c.resolveAPIKeyForProvider(name)
		if apiKey == "" {
			return fmt.Errorf("%s API key required: not found in config (providers.%s.api_key) or environment variable (%s)",
				name, name, provider.EnvVarForProvider(name))
		}
		if !p.ValidateAPIKey(apiKey) {
			return fmt.Errorf("invalid API key format for %s", name)
		}
	}

	modelID := c.Transcription.Model
	if modelID == "" {
		modelID = p.DefaultModel()
	}
	if err := provider.ValidateModelLanguage(name, modelID, c.Transcription.Language); err != nil {
		return fmt.Errorf("invalid transcription config: %w", err)
	}

	if c.Transcription.Timeout <= 0 {
		return fmt.Errorf("invalid transcription.timeout: %v", c.Transcription.Timeout)
	}
	return nil
}

func isKnownFormat(mime string) bool {
	for _, f := range recording.DefaultFormats {
		if f.MIME == mime {
			return true
		}
	}
	return false
}

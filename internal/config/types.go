package config

import (
	"reflect"
	"time"

	"github.com/wardscribe/voicepanel/internal/notify"
)

type Config struct {
	Recording     RecordingConfig           `toml:"recording"`
	Transcription TranscriptionConfig       `toml:"transcription"`
	Injection     InjectionConfig           `toml:"injection"`
	Notifications NotificationsConfig       `toml:"notifications"`
	Providers     map[string]ProviderConfig `toml:"providers"`
	Keywords      []string                  `toml:"keywords"`
}

// ProviderConfig holds API key for a provider
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

type RecordingConfig struct {
	SampleRate        int           `toml:"sample_rate"`
	Channels          int           `toml:"channels"`
	Device            string        `toml:"device"`
	PreferredFormat   string        `toml:"preferred_format"` // MIME type, e.g. "audio/webm"
	BitsPerSecond     int           `toml:"bits_per_second"`
	Interval          time.Duration `toml:"interval"` // chunk emission interval
	BufferSize        int           `toml:"buffer_size"`
	ChannelBufferSize int           `toml:"channel_buffer_size"`
	Timeout           time.Duration `toml:"timeout"` // maximum recording duration
}

type TranscriptionConfig struct {
	Provider string        `toml:"provider"`
	Language string        `toml:"language"`
	Model    string        `toml:"model"`
	BaseURL  string        `toml:"base_url"` // proxy base URL or endpoint override
	Timeout  time.Duration `toml:"timeout"`
}

type InjectionConfig struct {
	Backends         []string      `toml:"backends"`
	YdotoolTimeout   time.Duration `toml:"ydotool_timeout"`
	WtypeTimeout     time.Duration `toml:"wtype_timeout"`
	ClipboardTimeout time.Duration `toml:"clipboard_timeout"`
}

type NotificationsConfig struct {
	Enabled  bool           `toml:"enabled"`
	Type     string         `toml:"type"` // "desktop", "log", "none"
	Messages MessagesConfig `toml:"messages"`
}

type MessageConfig struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

type MessagesConfig struct {
	RecordingStarted    MessageConfig `toml:"recording_started"`
	RecordingPaused     MessageConfig `toml:"recording_paused"`
	RecordingResumed    MessageConfig `toml:"recording_resumed"`
	RecordingStopped    MessageConfig `toml:"recording_stopped"`
	Transcribing        MessageConfig `toml:"transcribing"`
	Transcribed         MessageConfig `toml:"transcribed"`
	TranscriptionFailed MessageConfig `toml:"transcription_failed"`
	Delivered           MessageConfig `toml:"delivered"`
	Cancelled           MessageConfig `toml:"cancelled"`
	ConfigReloaded      MessageConfig `toml:"config_reloaded"`
}

// Resolve merges user config with defaults from MessageDefs
func (m *MessagesConfig) Resolve() map[notify.MessageType]notify.Message {
	result := make(map[notify.MessageType]notify.Message)

	v := reflect.ValueOf(m).Elem()
	t := v.Type()
	tagToField := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		tagToField[t.Field(i).Tag.Get("toml")] = i
	}

	for _, def := range notify.MessageDefs {
		msg := notify.Message{
			Title:   def.DefaultTitle,
			Body:    def.DefaultBody,
			IsError: def.IsError,
		}
		if idx, ok := tagToField[def.ConfigKey]; ok {
			userMsg := v.Field(idx).Interface().(MessageConfig)
			if userMsg.Title != "" {
				msg.Title = userMsg.Title
			}
			if userMsg.Body != "" {
				msg.Body = userMsg.Body
			}
		}
		result[def.Type] = msg
	}
	return result
}

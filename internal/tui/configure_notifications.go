package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/notify"
)

// editNotifications handles the notifications section edit with type and custom messages
func editNotifications(cfg *config.Config) error {
	enabled := cfg.Notifications.Enabled

	desc := "Show notifications for recording and transcription status"
	if cfg.Notifications.Enabled {
		desc = fmt.Sprintf("Currently: enabled (%s). %s", cfg.Notifications.Type, desc)
	} else {
		desc = "Currently: disabled. " + desc
	}

	enableForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable desktop notifications?").
				Description(desc).
				Value(&enabled),
		),
	).WithTheme(getTheme())

	if err := enableForm.Run(); err != nil {
		return err
	}

	cfg.Notifications.Enabled = enabled
	if !enabled {
		return nil
	}

	notifType := cfg.Notifications.Type
	if notifType == "" || notifType == "none" {
		notifType = "desktop"
	}

	typeForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Notification Type").
				Description("How should notifications be displayed?").
				Options(
					huh.NewOption("Desktop notifications (notify-send)", "desktop"),
					huh.NewOption("Log to console only", "log"),
					huh.NewOption("None (silent)", "none"),
				).
				Value(&notifType),
		),
	).WithTheme(getTheme())

	if err := typeForm.Run(); err != nil {
		return err
	}

	cfg.Notifications.Type = notifType

	var configureMessages bool
	msgForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Configure custom notification messages?").
				Description("Customize the text shown in notifications").
				Affirmative("Yes").
				Negative("No, use defaults").
				Value(&configureMessages),
		),
	).WithTheme(getTheme())

	if err := msgForm.Run(); err != nil {
		return err
	}

	if configureMessages {
		return editNotificationMessages(cfg)
	}
	return nil
}

// messageField returns the config slot for a message key, or nil.
func messageField(cfg *config.Config, configKey string) *config.MessageConfig {
	m := &cfg.Notifications.Messages
	switch configKey {
	case "recording_started":
		return &m.RecordingStarted
	case "recording_paused":
		return &m.RecordingPaused
	case "recording_resumed":
		return &m.RecordingResumed
	case "recording_stopped":
		return &m.RecordingStopped
	case "transcribing":
		return &m.Transcribing
	case "transcribed":
		return &m.Transcribed
	case "transcription_failed":
		return &m.TranscriptionFailed
	case "delivered":
		return &m.Delivered
	case "cancelled":
		return &m.Cancelled
	case "config_reloaded":
		return &m.ConfigReloaded
	}
	return nil
}

// editNotificationMessages allows editing individual notification messages
func editNotificationMessages(cfg *config.Config) error {
	for {
		var options []huh.Option[string]
		for _, def := range notify.MessageDefs {
			options = append(options, huh.NewOption(formatMessageOption(cfg, def), def.ConfigKey))
		}
		options = append(options, huh.NewOption("Back", "back"))

		var selected string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Notification Messages").
					Description("Select a message to edit").
					Options(options...).
					Value(&selected),
			),
		).WithTheme(getTheme())

		if err := form.Run(); err != nil {
			return err
		}

		if selected == "back" {
			return nil
		}

		if err := editSingleMessage(cfg, selected); err != nil {
			continue
		}
	}
}

func formatMessageOption(cfg *config.Config, def notify.MessageDef) string {
	body := def.DefaultBody
	if f := messageField(cfg, def.ConfigKey); f != nil && f.Body != "" {
		body = f.Body
	}
	if len(body) > 30 {
		body = body[:30] + "..."
	}
	return fmt.Sprintf("%s: %q", def.ConfigKey, body)
}

// editSingleMessage edits a single notification message
func editSingleMessage(cfg *config.Config, configKey string) error {
	field := messageField(cfg, configKey)
	if field == nil {
		return fmt.Errorf("unknown message %q", configKey)
	}

	var def notify.MessageDef
	for _, d := range notify.MessageDefs {
		if d.ConfigKey == configKey {
			def = d
			break
		}
	}

	title := field.Title
	if title == "" {
		title = def.DefaultTitle
	}
	body := field.Body
	if body == "" {
		body = def.DefaultBody
	}

	var fields []huh.Field
	if !def.IsError {
		fields = append(fields, huh.NewInput().
			Title("Title").
			Description(fmt.Sprintf("Default: %s", def.DefaultTitle)).
			Placeholder(def.DefaultTitle).
			Value(&title))
	}
	fields = append(fields, huh.NewInput().
		Title("Body").
		Description(fmt.Sprintf("Default: %s", def.DefaultBody)).
		Placeholder(def.DefaultBody).
		Value(&body))

	form := huh.NewForm(
		huh.NewGroup(fields...),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	*field = config.MessageConfig{Title: title, Body: body}
	return nil
}

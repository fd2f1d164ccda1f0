package notify

import (
	"log"
	"os/exec"
)

// MessageType identifies a session transition worth telling the user about.
type MessageType int

const (
	MsgRecordingStarted MessageType = iota
	MsgRecordingPaused
	MsgRecordingResumed
	MsgRecordingStopped
	MsgTranscribing
	MsgTranscribed
	MsgTranscriptionFailed
	MsgDelivered
	MsgCancelled
	MsgConfigReloaded
)

type Message struct {
	Title   string
	Body    string
	IsError bool
}

// MessageDef ties a message type to its config key and default text.
type MessageDef struct {
	Type         MessageType
	ConfigKey    string
	DefaultTitle string
	DefaultBody  string
	IsError      bool
}

var MessageDefs = []MessageDef{
	{MsgRecordingStarted, "recording_started", "Voice Panel", "Recording started", false},
	{MsgRecordingPaused, "recording_paused", "Voice Panel", "Recording paused", false},
	{MsgRecordingResumed, "recording_resumed", "Voice Panel", "Recording resumed", false},
	{MsgRecordingStopped, "recording_stopped", "Voice Panel", "Recording stopped", false},
	{MsgTranscribing, "transcribing", "Voice Panel", "Transcribing...", false},
	{MsgTranscribed, "transcribed", "Voice Panel", "Transcript ready", false},
	{MsgTranscriptionFailed, "transcription_failed", "Voice Panel", "Transcription failed", true},
	{MsgDelivered, "delivered", "Voice Panel", "Transcript inserted", false},
	{MsgCancelled, "cancelled", "Voice Panel", "Dictation cancelled", false},
	{MsgConfigReloaded, "config_reloaded", "Voice Panel", "Configuration reloaded", false},
}

// DefaultMessages returns the built-in text for every message type.
func DefaultMessages() map[MessageType]Message {
	result := make(map[MessageType]Message, len(MessageDefs))
	for _, def := range MessageDefs {
		result[def.Type] = Message{Title: def.DefaultTitle, Body: def.DefaultBody, IsError: def.IsError}
	}
	return result
}

func lookup(messages map[MessageType]Message, t MessageType) Message {
	if msg, ok := messages[t]; ok {
		return msg
	}
	return DefaultMessages()[t]
}

type Notifier interface {
	Send(t MessageType)
	Error(msg string)
}

// New picks a notifier by config name: "desktop", "log" or anything else for Nop.
func New(kind string, messages map[MessageType]Message) Notifier {
	switch kind {
	case "desktop":
		return &Desktop{Messages: messages}
	case "log":
		return &Log{Messages: messages}
	default:
		return Nop{}
	}
}

type Desktop struct {
	Messages map[MessageType]Message
}

func (d *Desktop) Send(t MessageType) {
	msg := lookup(d.Messages, t)
	args := []string{"-a", "Voice Panel"}
	if msg.IsError {
		args = append(args, "-u", "critical")
	}
	args = append(args, msg.Title, msg.Body)
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		log.Printf("Failed to send notification: %v", err)
	}
}

func (d *Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", "Voice Panel", "-u", "critical", "Voice Panel", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("Failed to send error notification: %v", err)
	}
}

type Log struct {
	Messages map[MessageType]Message
}

func (l *Log) Send(t MessageType) {
	msg := lookup(l.Messages, t)
	log.Printf("Notification: %s - %s", msg.Title, msg.Body)
}

func (l *Log) Error(msg string) {
	log.Printf("Notification error: %s", msg)
}

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) Send(t MessageType) {}
func (Nop) Error(msg string)   {}

package notify

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"desktop", "*notify.Desktop"},
		{"log", "*notify.Log"},
		{"none", "notify.Nop"},
		{"", "notify.Nop"},
	}

	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			n := New(tc.kind, nil)
			got := typeName(n)
			if got != tc.want {
				t.Errorf("New(%q) = %s, want %s", tc.kind, got, tc.want)
			}
		})
	}
}

func typeName(n Notifier) string {
	switch n.(type) {
	case *Desktop:
		return "*notify.Desktop"
	case *Log:
		return "*notify.Log"
	case Nop:
		return "notify.Nop"
	}
	return "unknown"
}

func TestDefaultMessages(t *testing.T) {
	msgs := DefaultMessages()
	if len(msgs) != len(MessageDefs) {
		t.Fatalf("DefaultMessages() has %d entries, want %d", len(msgs), len(MessageDefs))
	}

	seen := make(map[string]bool)
	for _, def := range MessageDefs {
		if seen[def.ConfigKey] {
			t.Errorf("duplicate config key %q", def.ConfigKey)
		}
		seen[def.ConfigKey] = true

		msg := msgs[def.Type]
		if msg.Body == "" {
			t.Errorf("message %q has empty body", def.ConfigKey)
		}
	}

	if !msgs[MsgTranscriptionFailed].IsError {
		t.Error("transcription failed should be an error message")
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	t.Run("custom message", func(t *testing.T) {
		buf.Reset()
		l := &Log{Messages: map[MessageType]Message{
			MsgRecordingStarted: {Title: "Dictation", Body: "Listening"},
		}}
		l.Send(MsgRecordingStarted)
		if !strings.Contains(buf.String(), "Dictation - Listening") {
			t.Errorf("log output %q missing custom message", buf.String())
		}
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		buf.Reset()
		l := &Log{}
		l.Send(MsgCancelled)
		if !strings.Contains(buf.String(), "Dictation cancelled") {
			t.Errorf("log output %q missing default message", buf.String())
		}
	})

	t.Run("error", func(t *testing.T) {
		buf.Reset()
		l := &Log{}
		l.Error("Microphone is already in use by another application.")
		if !strings.Contains(buf.String(), "already in use") {
			t.Errorf("log output %q missing error text", buf.String())
		}
	})
}

func TestNopNotifier(t *testing.T) {
	var n Notifier = Nop{}
	n.Send(MsgRecordingStarted)
	n.Error("ignored")
}

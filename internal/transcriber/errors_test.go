package transcriber_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/wardscribe/voicepanel/internal/transcriber"
	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind voiceerr.Kind
		msg  string
	}{
		{"unauthorized", &transcriber.StatusError{StatusCode: 401}, voiceerr.NetworkOrServer, "Invalid API key. Please check your API key."},
		{"forbidden", &transcriber.StatusError{StatusCode: 403}, voiceerr.NetworkOrServer, "Invalid API key. Please check your API key."},
		{"rate limited", &transcriber.StatusError{StatusCode: 429}, voiceerr.NetworkOrServer, "Rate limit exceeded. Please try again later."},
		{"bad request", &transcriber.StatusError{StatusCode: 400}, voiceerr.NetworkOrServer, "Invalid audio format. Please try recording again."},
		{"unsupported media", &transcriber.StatusError{StatusCode: 415}, voiceerr.NetworkOrServer, "Invalid audio format. Please try recording again."},
		{"server message", &transcriber.StatusError{StatusCode: 500, Body: "model overloaded"}, voiceerr.NetworkOrServer, "model overloaded"},
		{"server no message", fmt.Errorf("call: %w", &transcriber.StatusError{StatusCode: 503}), voiceerr.NetworkOrServer, "Server error: 503"},
		{"openai api error", &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, voiceerr.NetworkOrServer, "Invalid API key. Please check your API key."},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, voiceerr.NetworkOrServer, "Network error. Please check your internet connection."},
		{"deadline", context.DeadlineExceeded, voiceerr.NetworkOrServer, "Network error. Please check your internet connection."},
		{"cancelled", fmt.Errorf("post: %w", context.Canceled), voiceerr.Aborted, "Transcription cancelled"},
		{"anything else", errors.New("decode response: unexpected EOF"), voiceerr.NetworkOrServer, "decode response: unexpected EOF"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := transcriber.Classify(tc.err)
			if voiceerr.KindOf(got) != tc.kind {
				t.Errorf("kind = %v, want %v", voiceerr.KindOf(got), tc.kind)
			}
			if voiceerr.MessageOf(got) != tc.msg {
				t.Errorf("message = %q, want %q", voiceerr.MessageOf(got), tc.msg)
			}
			if !errors.Is(got, tc.err) {
				t.Error("classified error should wrap the cause")
			}
		})
	}

	if transcriber.Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

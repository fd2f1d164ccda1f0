package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/deps"
	"github.com/wardscribe/voicepanel/internal/provider"
)

// withProxyConfig points the user config at a fake documentation backend.
func withProxyConfig(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path, err := config.GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Transcription.Provider = provider.ProviderProxy
	cfg.Transcription.BaseURL = srv.URL + "/api"
	if err := config.SaveTo(path, cfg); err != nil {
		t.Fatal(err)
	}
}

func writeAudio(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunTranscribe(t *testing.T) {
	var gotFilename, gotType string
	withProxyConfig(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if files := r.MultipartForm.File["audio"]; len(files) > 0 {
			gotFilename = files[0].Filename
			gotType = files[0].Header.Get("Content-Type")
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"text": "Afebrile, vitals stable."}})
	})

	var out bytes.Buffer
	path := writeAudio(t, "note.webm", []byte("opus-bytes"))
	if err := runTranscribe(context.Background(), &out, path, "", "", ""); err != nil {
		t.Fatalf("runTranscribe: %v", err)
	}
	if got := out.String(); got != "Afebrile, vitals stable.\n" {
		t.Errorf("output = %q", got)
	}
	if gotFilename != "recording.webm" || gotType != "audio/webm" {
		t.Errorf("upload = %q (%q)", gotFilename, gotType)
	}
}

func TestRunTranscribeRejectsBadInput(t *testing.T) {
	withProxyConfig(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"unknown extension", writeAudio(t, "note.flac", []byte("x")), "unsupported audio file"},
		{"empty file", writeAudio(t, "note.wav", nil), "is empty"},
		{"missing file", filepath.Join(t.TempDir(), "gone.ogg"), "failed to read audio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runTranscribe(context.Background(), &bytes.Buffer{}, tt.path, "", "", "")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunTranscribeServerError(t *testing.T) {
	withProxyConfig(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := runTranscribe(context.Background(), &bytes.Buffer{}, writeAudio(t, "note.ogg", []byte("x")), "", "", "")
	if err == nil || !strings.HasPrefix(err.Error(), "transcription failed: ") {
		t.Errorf("error = %v", err)
	}
}

func TestRunTranscribeMissingKey(t *testing.T) {
	withProxyConfig(t, func(w http.ResponseWriter, r *http.Request) {})
	t.Setenv(provider.EnvOpenAIKey, "")

	err := runTranscribe(context.Background(), &bytes.Buffer{}, writeAudio(t, "note.wav", []byte("RIFF")), provider.ProviderOpenAI, "", "")
	if err == nil || !strings.Contains(err.Error(), "failed to create transcriber") {
		t.Errorf("error = %v", err)
	}
}

func TestKnownExtensions(t *testing.T) {
	if got := knownExtensions(); got != ".webm, .ogg, .mp4, .wav" {
		t.Errorf("knownExtensions() = %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"serve", "toggle", "pause", "retry", "done", "cancel", "stop", "status", "version", "transcribe", "configure", "formats", "doctor"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == rootCmd {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRunDoctor(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	tools := []deps.Tool{
		{Name: "pw-record", Purpose: "capture", Required: true},
		{Name: "wtype", Purpose: "typing"},
	}
	var out bytes.Buffer
	err := runDoctor(&out, tools)
	if err == nil || !strings.Contains(err.Error(), "pw-record") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(out.String(), "missing  pw-record") || !strings.Contains(out.String(), "absent   wtype") {
		t.Errorf("output:\n%s", out.String())
	}

	if err := runDoctor(&out, tools[1:]); err != nil {
		t.Errorf("optional tools only: %v", err)
	}
}

package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/wardscribe/voicepanel/internal/provider"
	"github.com/wardscribe/voicepanel/internal/recording"
	"github.com/wardscribe/voicepanel/internal/voiceerr"
)

// ElevenLabsBackend calls the ElevenLabs Scribe speech-to-text API directly.
type ElevenLabsBackend struct {
	client   *http.Client
	endpoint *provider.EndpointConfig
	apiKey   string
	model    string
	language string
	keywords []string
}

// ElevenLabsResponse is either a single transcript or, for multichannel
// requests, one transcript per channel.
type ElevenLabsResponse struct {
	Text        *string `json:"text"`
	Transcripts []struct {
		Text string `json:"text"`
	} `json:"transcripts"`
}

func (r *ElevenLabsResponse) joined() string {
	if r.Text != nil {
		return *r.Text
	}
	texts := make([]string, 0, len(r.Transcripts))
	for _, t := range r.Transcripts {
		texts = append(texts, t.Text)
	}
	return strings.Join(texts, "\n")
}

type elevenLabsError struct {
	Detail json.RawMessage `json:"detail"`
}

// message digs the human-readable text out of {"detail": "..."} or
// {"detail": {"message": "..."}}.
func (e *elevenLabsError) message() string {
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(e.Detail, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(e.Detail, &obj) == nil {
		return obj.Message
	}
	return ""
}

// NewElevenLabsBackend creates a backend for the Scribe API
// endpoint: the endpoint config (BaseURL + Path)
// model: model ID (e.g., "scribe_v2")
// lang: provider language code
func NewElevenLabsBackend(endpoint *provider.EndpointConfig, apiKey, model, lang string, keywords []string, timeout time.Duration) *ElevenLabsBackend {
	if endpoint == nil {
		endpoint = &provider.EndpointConfig{BaseURL: "https://api.elevenlabs.io", Path: "/v1/speech-to-text"}
	}
	return &ElevenLabsBackend{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		language: lang,
		keywords: keywords,
	}
}

func (b *ElevenLabsBackend) Name() string {
	return provider.ProviderElevenLabs
}

func (b *ElevenLabsBackend) Transcribe(ctx context.Context, a *recording.Artifact) (string, error) {
	if b.apiKey == "" {
		return "", voiceerr.New(voiceerr.NetworkOrServer, "ElevenLabs API key is required", nil)
	}
	if a.Size() == 0 {
		return "", nil
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writeAudioPart(writer, "file", a); err != nil {
		return "", err
	}
	if err := writer.WriteField("model_id", b.model); err != nil {
		return "", fmt.Errorf("write model_id: %w", err)
	}
	if b.language != "" {
		if err := writer.WriteField("language_code", b.language); err != nil {
			return "", fmt.Errorf("write language_code: %w", err)
		}
	}
	if len(b.keywords) > 0 {
		keytermsJSON, err := json.Marshal(b.keywords)
		if err != nil {
			return "", fmt.Errorf("marshal keyterms: %w", err)
		}
		if err := writer.WriteField("keyterms", string(keytermsJSON)); err != nil {
			return "", fmt.Errorf("write keyterms: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close writer: %w", err)
	}

	url := strings.TrimRight(b.endpoint.BaseURL, "/") + b.endpoint.Path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", b.apiKey)

	start := time.Now()
	resp, err := b.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("elevenlabs-backend: API call failed after %v: %v", duration, err)
		return "", fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("elevenlabs-backend: API returned status %d: %s", resp.StatusCode, string(bodyBytes))
		var apiErr elevenLabsError
		msg := ""
		if json.Unmarshal(bodyBytes, &apiErr) == nil {
			msg = apiErr.message()
		}
		return "", &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}

	var result ElevenLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text := result.joined()
	log.Printf("elevenlabs-backend: transcribed %d bytes in %v", a.Size(), duration)
	return text, nil
}

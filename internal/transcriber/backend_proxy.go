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

// ProxyBackend uploads recordings to the documentation backend, which runs
// the speech model and answers with the text.
type ProxyBackend struct {
	client   *http.Client
	endpoint *provider.EndpointConfig
}

type proxyResponse struct {
	Text    string          `json:"text"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type proxyData struct {
	Text          string `json:"text"`
	Transcription string `json:"transcription"`
}

// transcript picks data.text, then text, then data.transcription. A data
// field that is not an object is ignored.
func (r *proxyResponse) transcript() string {
	var data proxyData
	if len(r.Data) > 0 {
		_ = json.Unmarshal(r.Data, &data)
	}
	if data.Text != "" {
		return data.Text
	}
	if r.Text != "" {
		return r.Text
	}
	return data.Transcription
}

func NewProxyBackend(endpoint *provider.EndpointConfig, timeout time.Duration) *ProxyBackend {
	if endpoint == nil {
		endpoint = &provider.EndpointConfig{BaseURL: provider.DefaultProxyBaseURL, Path: provider.ProxyVoiceCommandPath}
	}
	return &ProxyBackend{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

func (b *ProxyBackend) Name() string {
	return provider.ProviderProxy
}

func (b *ProxyBackend) URL() string {
	return strings.TrimRight(b.endpoint.BaseURL, "/") + b.endpoint.Path
}

func (b *ProxyBackend) Transcribe(ctx context.Context, a *recording.Artifact) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writeAudioPart(writer, "audio", a); err != nil {
		return "", err
	}
	if err := writer.WriteField("autoProcess", "false"); err != nil {
		return "", fmt.Errorf("write autoProcess: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL(), &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		log.Printf("proxy-backend: request failed: %v", err)
		return "", fmt.Errorf("voice-command request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var result proxyResponse
	decodeErr := json.Unmarshal(raw, &result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if decodeErr == nil {
			msg = result.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("Server error: %d", resp.StatusCode)
		}
		log.Printf("proxy-backend: status %d: %s", resp.StatusCode, msg)
		return "", voiceerr.New(voiceerr.NetworkOrServer, msg, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)})
	}

	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	return result.transcript(), nil
}

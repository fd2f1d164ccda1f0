package transcriber

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/wardscribe/voicepanel/internal/provider"
	"github.com/wardscribe/voicepanel/internal/recording"
)

// OpenAIBackend calls an OpenAI-compatible Whisper endpoint (OpenAI, Groq).
type OpenAIBackend struct {
	name     string
	client   *openai.Client
	model    string
	language string
}

func NewOpenAIBackend(name string, endpoint *provider.EndpointConfig, apiKey, model, lang string) *OpenAIBackend {
	clientConfig := openai.DefaultConfig(apiKey)
	if endpoint != nil && endpoint.BaseURL != "" {
		clientConfig.BaseURL = endpoint.BaseURL
	}
	return &OpenAIBackend{
		name:     name,
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: lang,
	}
}

func (b *OpenAIBackend) Name() string {
	return b.name
}

func (b *OpenAIBackend) Transcribe(ctx context.Context, a *recording.Artifact) (string, error) {
	if a.Size() == 0 {
		return "", nil
	}

	req := openai.AudioRequest{
		Model:    b.model,
		Reader:   a.Reader(),
		FilePath: a.Filename(),
		Language: b.language,
	}

	start := time.Now()
	resp, err := b.client.CreateTranscription(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("%s-backend: API call failed after %v: %v", b.name, duration, err)
		return "", fmt.Errorf("%s transcription: %w", b.name, err)
	}

	log.Printf("%s-backend: transcribed %d bytes in %v", b.name, a.Size(), duration)
	return resp.Text, nil
}

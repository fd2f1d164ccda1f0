package transcriber

import (
	"context"
	"fmt"
	"time"

	"github.com/wardscribe/voicepanel/internal/provider"
	"github.com/wardscribe/voicepanel/internal/recording"
)

// Backend turns one finalized recording into text. Implementations are
// stateless with respect to calls; single-flight is enforced by Client.
type Backend interface {
	Name() string
	Transcribe(ctx context.Context, a *recording.Artifact) (string, error)
}

// Configuration for the transcription backend
type Config struct {
	Provider string
	APIKey   string
	Language string
	Model    string
	BaseURL  string // proxy base URL, or endpoint override for direct providers
	Keywords []string
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Provider: provider.ProviderProxy,
		BaseURL:  provider.DefaultProxyBaseURL,
		Language: "en",
		Timeout:  60 * time.Second,
	}
}

// NewBackend picks the backend named by config.Provider.
func NewBackend(config Config) (Backend, error) {
	p := provider.GetProvider(config.Provider)
	if p == nil {
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}

	if p.RequiresAPIKey() && config.APIKey == "" {
		return nil, fmt.Errorf("%s API key required", p.Name())
	}

	modelID := config.Model
	if modelID == "" {
		modelID = p.DefaultModel()
	}
	model, err := provider.FindModel(p, modelID)
	if err != nil {
		return nil, err
	}
	config.Model = model.ID

	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	endpoint := model.Endpoint
	if config.BaseURL != "" && endpoint != nil {
		endpoint = &provider.EndpointConfig{BaseURL: config.BaseURL, Path: endpoint.Path}
	}

	switch model.AdapterType {
	case provider.AdapterProxy:
		return NewProxyBackend(endpoint, config.Timeout), nil
	case provider.AdapterElevenLabs:
		return NewElevenLabsBackend(endpoint, config.APIKey, model.ID, config.Language, config.Keywords, config.Timeout), nil
	case provider.AdapterOpenAI:
		return NewOpenAIBackend(p.Name(), endpoint, config.APIKey, model.ID, config.Language), nil
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", model.AdapterType)
	}
}

// New builds a Client around the configured backend.
func New(config Config) (*Client, error) {
	backend, err := NewBackend(config)
	if err != nil {
		return nil, err
	}
	return NewClient(backend), nil
}

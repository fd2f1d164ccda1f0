package provider

import (
	"fmt"
	"sort"
)

// Provider describes a speech-to-text service and the models it offers
type Provider interface {
	Name() string
	RequiresAPIKey() bool
	ValidateAPIKey(key string) bool
	Models() []Model
	DefaultModel() string
}

// ProviderConfig holds configuration for a single provider
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

var registry = make(map[string]Provider)

func init() {
	Register(&ProxyProvider{})
	Register(&ElevenLabsProvider{})
	Register(&OpenAIProvider{})
	Register(&GroqProvider{})
}

// Register adds a provider to the registry
func Register(p Provider) {
	registry[p.Name()] = p
}

// GetProvider returns a provider by name, or nil if not found
func GetProvider(name string) Provider {
	return registry[name]
}

// ListProviders returns all registered provider names, sorted
func ListProviders() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindModel returns the provider's model with the given ID.
func FindModel(p Provider, modelID string) (*Model, error) {
	models := p.Models()
	for i := range models {
		if models[i].ID == modelID {
			return &models[i], nil
		}
	}
	return nil, fmt.Errorf("model %q not found for provider %s", modelID, p.Name())
}

// GetModel looks up a model by provider name and model ID
func GetModel(providerName, modelID string) (*Model, error) {
	p := GetProvider(providerName)
	if p == nil {
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
	return FindModel(p, modelID)
}

// ValidateModelLanguage checks that the model accepts the language code
func ValidateModelLanguage(providerName, modelID, lang string) error {
	m, err := GetModel(providerName, modelID)
	if err != nil {
		return err
	}
	if !m.SupportsLanguage(lang) {
		return fmt.Errorf("%s does not support %s", m.Name, LanguageLabel(lang))
	}
	return nil
}

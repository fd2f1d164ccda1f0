package provider

import "strings"

// GroqProvider implements Provider for Groq's OpenAI-compatible API
type GroqProvider struct{}

func (p *GroqProvider) Name() string {
	return ProviderGroq
}

func (p *GroqProvider) RequiresAPIKey() bool {
	return true
}

func (p *GroqProvider) ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "gsk_")
}

func (p *GroqProvider) Models() []Model {
	docsURL := "https://console.groq.com/docs/speech-to-text#supported-languages"
	endpoint := &EndpointConfig{BaseURL: "https://api.groq.com/openai/v1", Path: "/audio/transcriptions"}

	return []Model{
		{
			ID:                 "whisper-large-v3",
			Name:               "Whisper Large v3",
			Description:        "Most accurate multilingual Whisper",
			AdapterType:        AdapterOpenAI,
			SupportedLanguages: groqTranscriptionLanguages,
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
		{
			ID:                 "whisper-large-v3-turbo",
			Name:               "Whisper Large v3 Turbo",
			Description:        "Fast multilingual Whisper",
			AdapterType:        AdapterOpenAI,
			SupportedLanguages: groqTranscriptionLanguages,
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
	}
}

func (p *GroqProvider) DefaultModel() string {
	return "whisper-large-v3-turbo"
}

package provider

import "strings"

// OpenAIProvider implements Provider for OpenAI's transcription API
type OpenAIProvider struct{}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *OpenAIProvider) RequiresAPIKey() bool {
	return true
}

func (p *OpenAIProvider) ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "sk-")
}

func (p *OpenAIProvider) Models() []Model {
	docsURL := "https://platform.openai.com/docs/guides/speech-to-text#supported-languages"
	endpoint := &EndpointConfig{BaseURL: "https://api.openai.com/v1", Path: "/audio/transcriptions"}

	return []Model{
		{
			ID:                 "whisper-1",
			Name:               "Whisper 1",
			Description:        "OpenAI's production speech-to-text model",
			AdapterType:        AdapterOpenAI,
			SupportedLanguages: openaiTranscriptionLanguages,
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
		{
			ID:                 "gpt-4o-mini-transcribe",
			Name:               "GPT-4o Mini Transcribe",
			Description:        "Cheaper GPT-4o based transcription",
			AdapterType:        AdapterOpenAI,
			SupportedLanguages: openaiTranscriptionLanguages,
			Endpoint:           endpoint,
			DocsURL:            docsURL,
		},
	}
}

func (p *OpenAIProvider) DefaultModel() string {
	return "whisper-1"
}

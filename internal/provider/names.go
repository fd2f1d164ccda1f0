package provider

// Provider name constants for config and registry
const (
	ProviderProxy      = "proxy"
	ProviderElevenLabs = "elevenlabs"
	ProviderOpenAI     = "openai"
	ProviderGroq       = "groq"
)

// Environment variable names for API keys and the proxy base URL
const (
	EnvElevenLabsKey = "ELEVENLABS_API_KEY"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGroqKey       = "GROQ_API_KEY"
	EnvProxyBaseURL  = "VOICEPANEL_API_BASE_URL"
)

// Adapter type constants for transcription backends
const (
	AdapterProxy      = "proxy"
	AdapterElevenLabs = "elevenlabs"
	AdapterOpenAI     = "openai"
)

const (
	DefaultProxyBaseURL   = "http://localhost:5000/api"
	ProxyVoiceCommandPath = "/agent/voice-command"
)

// EnvVarForProvider returns the environment variable name for a provider's API key
func EnvVarForProvider(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return EnvOpenAIKey
	case ProviderGroq:
		return EnvGroqKey
	case ProviderElevenLabs:
		return EnvElevenLabsKey
	default:
		return ""
	}
}

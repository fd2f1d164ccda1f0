package provider

// Model represents a transcription model with full metadata
type Model struct {
	ID                 string          // unique identifier (e.g., "whisper-1", "scribe_v2")
	Name               string          // display name
	Description        string          // short description
	AdapterType        string          // which backend to use (see Adapter* constants)
	SupportedLanguages []string        // explicit list; empty means the server decides
	Endpoint           *EndpointConfig // default endpoint
	DocsURL            string          // URL to provider's language support documentation
}

// EndpointConfig holds HTTP endpoint configuration
type EndpointConfig struct {
	BaseURL string // e.g., "https://api.openai.com/v1" or "http://localhost:5000/api"
	Path    string // e.g., "/audio/transcriptions"
}

// SupportsLanguage returns true if the model supports the given language code.
// Auto-detect (empty string) is always supported.
func (m *Model) SupportsLanguage(code string) bool {
	if code == "" || len(m.SupportedLanguages) == 0 {
		return true
	}
	for _, supported := range m.SupportedLanguages {
		if supported == code {
			return true
		}
	}
	return false
}

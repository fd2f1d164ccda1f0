package provider

// ProxyProvider is the documentation backend's voice-command endpoint. It
// holds the real speech credentials, so the client needs none.
type ProxyProvider struct{}

func (p *ProxyProvider) Name() string {
	return ProviderProxy
}

func (p *ProxyProvider) RequiresAPIKey() bool {
	return false
}

func (p *ProxyProvider) ValidateAPIKey(key string) bool {
	return true
}

func (p *ProxyProvider) Models() []Model {
	return []Model{
		{
			ID:          "voice-command",
			Name:        "Backend voice command",
			Description: "Server-side transcription, no client key",
			AdapterType: AdapterProxy,
			Endpoint:    &EndpointConfig{BaseURL: DefaultProxyBaseURL, Path: ProxyVoiceCommandPath},
		},
	}
}

func (p *ProxyProvider) DefaultModel() string {
	return "voice-command"
}

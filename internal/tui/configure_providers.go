package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/provider"
)

// getProviderDisplayName returns the display name for a provider
func getProviderDisplayName(providerName string) string {
	if name, ok := providerDisplayNames[providerName]; ok {
		return name
	}
	return providerName
}

// maskAPIKey returns a masked version of an API key for display
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// getConfiguredProviders returns the providers with a stored API key, sorted
func getConfiguredProviders(cfg *config.Config) []string {
	providers := make([]string, 0, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		if pc.APIKey != "" {
			providers = append(providers, name)
		}
	}
	sort.Strings(providers)
	return providers
}

func isConfigured(configuredProviders []string, name string) bool {
	for _, p := range configuredProviders {
		if p == name {
			return true
		}
	}
	return false
}

// editProviders handles the providers section edit with submenu
func editProviders(cfg *config.Config, onboarding bool) error {
	exitLabel := "Done"
	if onboarding {
		exitLabel = "Next"
	}

	defaultToExit := false

	for {
		var options []huh.Option[string]
		for _, name := range KeyedProviders {
			options = append(options, huh.NewOption(formatProviderOption(cfg, name), name))
		}
		options = append(options, huh.NewOption(exitLabel, "back"))

		selected := ""
		if defaultToExit {
			selected = "back"
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Provider Settings").
					Description("Select a provider to configure API key").
					Options(options...).
					Value(&selected),
			),
		).WithTheme(getTheme())

		if err := form.Run(); err != nil {
			return err
		}

		if selected == "back" {
			return nil
		}

		apiKey, err := configureSingleProvider(cfg, selected)
		if err != nil {
			continue
		}

		if apiKey != "" {
			setAPIKey(cfg, selected, apiKey)
			defaultToExit = true
		}
	}
}

func setAPIKey(cfg *config.Config, providerName, apiKey string) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]config.ProviderConfig)
	}
	cfg.Providers[providerName] = config.ProviderConfig{APIKey: apiKey}
}

// formatProviderOption formats a provider menu option with status
func formatProviderOption(cfg *config.Config, name string) string {
	status := "(not configured)"
	if pc, exists := cfg.Providers[name]; exists && pc.APIKey != "" {
		status = "(configured)"
	} else if env := provider.EnvVarForProvider(name); env != "" {
		status = fmt.Sprintf("(not configured, or set %s)", env)
	}

	switch name {
	case provider.ProviderElevenLabs:
		return fmt.Sprintf("ElevenLabs - Scribe %s", status)
	case provider.ProviderOpenAI:
		return fmt.Sprintf("OpenAI - Whisper %s", status)
	case provider.ProviderGroq:
		return fmt.Sprintf("Groq - Whisper Large v3 %s", status)
	default:
		return fmt.Sprintf("%s %s", name, status)
	}
}

// configureSingleProvider asks whether to replace an existing key, then
// prompts for a new one. An empty result means the current key was kept.
func configureSingleProvider(cfg *config.Config, providerName string) (string, error) {
	var existingKey string
	if pc, exists := cfg.Providers[providerName]; exists && pc.APIKey != "" {
		existingKey = pc.APIKey
	}

	if existingKey != "" {
		var update bool
		confirmForm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("%s API Key", getProviderDisplayName(providerName))).
					Description(fmt.Sprintf("Current: %s", maskAPIKey(existingKey))).
					Affirmative("Update key").
					Negative("Keep current").
					Value(&update),
			),
		).WithTheme(getTheme())

		if err := confirmForm.Run(); err != nil {
			return "", err
		}

		if !update {
			return "", nil
		}
	}

	return inputAPIKey(providerName)
}

func inputAPIKey(providerName string) (string, error) {
	displayName := getProviderDisplayName(providerName)
	p := provider.GetProvider(providerName)

	var apiKey string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("%s API Key", displayName)).
				Description(fmt.Sprintf("Enter your %s API key", displayName)).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(apiKeyValidator(p, displayName)),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	return apiKey, nil
}

func apiKeyValidator(p provider.Provider, displayName string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("API key is required")
		}
		if p != nil && !p.ValidateAPIKey(s) {
			return fmt.Errorf("invalid API key format for %s", displayName)
		}
		return nil
	}
}

// ensureProviderConfigured prompts for an API key when the selected provider
// needs one and none is stored.
func ensureProviderConfigured(cfg *config.Config, providerName string, configuredProviders []string) []string {
	p := provider.GetProvider(providerName)
	if p == nil || !p.RequiresAPIKey() || isConfigured(configuredProviders, providerName) {
		return configuredProviders
	}

	apiKey, err := configureSingleProvider(cfg, providerName)
	if err != nil || apiKey == "" {
		return configuredProviders
	}
	setAPIKey(cfg, providerName, apiKey)

	return append(configuredProviders, providerName)
}

package tui

import (
	"fmt"
	"net/url"

	"github.com/charmbracelet/huh"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/provider"
)

// editTranscription selects the provider and model, prompting for a key or
// base URL as the provider requires.
func editTranscription(cfg *config.Config, configuredProviders []string) ([]string, error) {
	providerOptions := getTranscriptionProviderOptions(configuredProviders)

	selectedProvider := cfg.Transcription.Provider
	if selectedProvider == "" {
		selectedProvider = provider.ProviderProxy
	}

	providerDesc := "Choose which service to use for speech-to-text"
	if cfg.Transcription.Provider != "" {
		providerDesc = fmt.Sprintf("Currently: %s", formatProviderModel(cfg))
	}

	providerForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Provider").
				Description(providerDesc).
				Options(providerOptions...).
				Value(&selectedProvider),
		),
	).WithTheme(getTheme())

	if err := providerForm.Run(); err != nil {
		return configuredProviders, err
	}

	configuredProviders = ensureProviderConfigured(cfg, selectedProvider, configuredProviders)
	if selectedProvider != cfg.Transcription.Provider {
		cfg.Transcription.Model = ""
	}
	cfg.Transcription.Provider = selectedProvider

	if selectedProvider == provider.ProviderProxy {
		return configuredProviders, editProxyBaseURL(cfg)
	}

	modelOptions := getTranscriptionModelOptions(selectedProvider, cfg.Transcription.Model)
	selectedModel := cfg.Transcription.Model
	if selectedModel == "" {
		if p := provider.GetProvider(selectedProvider); p != nil {
			selectedModel = p.DefaultModel()
		}
	}

	modelForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Model").
				Description(fmt.Sprintf("Models offered by %s", getProviderDisplayName(selectedProvider))).
				Options(modelOptions...).
				Value(&selectedModel),
		),
	).WithTheme(getTheme())

	if err := modelForm.Run(); err != nil {
		return configuredProviders, err
	}
	cfg.Transcription.Model = selectedModel

	if err := provider.ValidateModelLanguage(selectedProvider, selectedModel, cfg.Transcription.Language); err != nil {
		fmt.Println()
		fmt.Println(StyleWarning.Render(err.Error()))
		fmt.Println(StyleMuted.Render("Pick another language from the Language menu."))
		cfg.Transcription.Language = ""
	}

	return configuredProviders, nil
}

func editProxyBaseURL(cfg *config.Config) error {
	baseURL := cfg.Transcription.BaseURL

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend Base URL").
				Description(fmt.Sprintf("Empty uses $%s or %s", provider.EnvProxyBaseURL, provider.DefaultProxyBaseURL)).
				Placeholder(provider.DefaultProxyBaseURL).
				Value(&baseURL).
				Validate(validateBaseURL),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Transcription.BaseURL = baseURL
	return nil
}

func validateBaseURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL such as %s", provider.DefaultProxyBaseURL)
	}
	return nil
}

// getTranscriptionProviderOptions lists the proxy first, then the direct
// providers marked by whether a key is stored.
func getTranscriptionProviderOptions(configuredProviders []string) []huh.Option[string] {
	options := []huh.Option[string]{
		huh.NewOption("Documentation backend (no API key needed)", provider.ProviderProxy),
	}
	for _, name := range KeyedProviders {
		label := getProviderDisplayName(name)
		if !isConfigured(configuredProviders, name) {
			label += " (not configured)"
		}
		options = append(options, huh.NewOption(label, name))
	}
	return options
}

func getTranscriptionModelOptions(providerName, current string) []huh.Option[string] {
	p := provider.GetProvider(providerName)
	if p == nil {
		return nil
	}

	var options []huh.Option[string]
	for _, m := range p.Models() {
		label := fmt.Sprintf("%s - %s", m.ID, m.Description)
		if m.ID == p.DefaultModel() {
			label += " (recommended)"
		}
		if m.ID == current {
			label += " (current)"
		}
		options = append(options, huh.NewOption(label, m.ID))
	}
	return options
}

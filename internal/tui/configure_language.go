package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/provider"
)

// editLanguage selects the transcription language among those the current
// model accepts.
func editLanguage(cfg *config.Config) error {
	model := currentModel(cfg)
	languageOptions := getLanguageOptions(model, cfg.Transcription.Language)

	selectedLanguage := cfg.Transcription.Language

	desc := "Select language for transcription"
	if model != nil && model.DocsURL != "" {
		desc = fmt.Sprintf("%s (see %s)", desc, model.DocsURL)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Description(desc).
				Options(languageOptions...).
				Filtering(true).
				Value(&selectedLanguage),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Transcription.Language = selectedLanguage
	return nil
}

// currentModel resolves the configured model, falling back to the provider
// default. Nil when the provider is unknown.
func currentModel(cfg *config.Config) *provider.Model {
	p := provider.GetProvider(cfg.Transcription.Provider)
	if p == nil {
		return nil
	}
	modelID := cfg.Transcription.Model
	if modelID == "" {
		modelID = p.DefaultModel()
	}
	m, err := provider.FindModel(p, modelID)
	if err != nil {
		return nil
	}
	return m
}

// getLanguageOptions returns auto-detect followed by the model's languages.
// A model without an explicit list accepts any code, so the current one is
// offered alongside a few common choices.
func getLanguageOptions(model *provider.Model, currentLang string) []huh.Option[string] {
	autoLabel := "Auto-detect"
	if currentLang == "" {
		autoLabel += " (current)"
	}
	options := []huh.Option[string]{huh.NewOption(autoLabel, "")}

	codes := commonLanguages
	if model != nil && len(model.SupportedLanguages) > 0 {
		codes = model.SupportedLanguages
	} else if currentLang != "" && !contains(codes, currentLang) {
		codes = append([]string{currentLang}, codes...)
	}

	for _, code := range codes {
		label := provider.LanguageLabel(code)
		if code == currentLang {
			label += " (current)"
		}
		options = append(options, huh.NewOption(label, code))
	}
	return options
}

var commonLanguages = []string{"en", "es", "fr", "de", "it", "pt", "nl", "pl"}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

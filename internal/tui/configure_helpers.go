package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/wardscribe/voicepanel/internal/config"
	"github.com/wardscribe/voicepanel/internal/provider"
)

func formatProvidersLabel(cfg *config.Config) string {
	configured := getConfiguredProviders(cfg)
	if len(configured) == 0 {
		return "API Keys"
	}
	return fmt.Sprintf("API Keys (%s)", strings.Join(configured, ", "))
}

// formatLanguageMenuLabel formats the language menu option showing current setting
func formatLanguageMenuLabel(cfg *config.Config) string {
	if cfg.Transcription.Language == "" {
		return "Language (Auto-detect)"
	}
	return fmt.Sprintf("Language (%s)", provider.LanguageLabel(cfg.Transcription.Language))
}

func formatTranscriptionLabel(cfg *config.Config) string {
	return fmt.Sprintf("Transcription (%s)", formatProviderModel(cfg))
}

func formatProviderModel(cfg *config.Config) string {
	if cfg.Transcription.Provider == provider.ProviderProxy {
		baseURL := cfg.Transcription.BaseURL
		if baseURL == "" {
			baseURL = "default URL"
		}
		return fmt.Sprintf("%s, %s", cfg.Transcription.Provider, baseURL)
	}
	model := cfg.Transcription.Model
	if model == "" {
		if p := provider.GetProvider(cfg.Transcription.Provider); p != nil {
			model = p.DefaultModel()
		}
	}
	return fmt.Sprintf("%s/%s", cfg.Transcription.Provider, model)
}

func formatKeywordsLabel(cfg *config.Config) string {
	if len(cfg.Keywords) == 0 {
		return "Keywords"
	}
	return fmt.Sprintf("Keywords (%d)", len(cfg.Keywords))
}

func formatInjectionLabel(cfg *config.Config) string {
	return fmt.Sprintf("Injection (%s)", strings.Join(cfg.Injection.Backends, " -> "))
}

func formatNotificationsLabel(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "Notifications (off)"
	}
	return fmt.Sprintf("Notifications (%s)", cfg.Notifications.Type)
}

// summaryLines renders the configuration summary shown before saving.
func summaryLines(cfg *config.Config) []string {
	var lines []string
	add := func(label, value string) {
		lines = append(lines, fmt.Sprintf("  %s %s", StyleLabel.Render(label), value))
	}

	configured := getConfiguredProviders(cfg)
	if len(configured) > 0 {
		add("API keys:", strings.Join(configured, ", "))
	}
	add("Transcription:", formatProviderModel(cfg))
	if cfg.Transcription.Language != "" {
		add("Language:", provider.LanguageLabel(cfg.Transcription.Language))
	} else {
		add("Language:", "auto-detect")
	}
	if len(cfg.Keywords) > 0 {
		add("Keywords:", strings.Join(cfg.Keywords, ", "))
	}
	add("Format:", cfg.Recording.PreferredFormat)
	add("Max length:", cfg.Recording.Timeout.String())
	add("Backends:", strings.Join(cfg.Injection.Backends, " -> "))
	if cfg.Notifications.Enabled {
		add("Notifications:", cfg.Notifications.Type)
	} else {
		add("Notifications:", "disabled")
	}
	return lines
}

func showSummary(cfg *config.Config) (bool, error) {
	fmt.Println()
	fmt.Println(StyleHeader.Render("Configuration Summary"))
	fmt.Println()
	for _, line := range summaryLines(cfg) {
		fmt.Println(line)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println()
		fmt.Println(StyleError.Render("Warning: " + err.Error()))
	}
	fmt.Println()

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}

func inputKeywords(existingKeywords []string) ([]string, error) {
	keywordsInput := strings.Join(existingKeywords, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Keywords").
				Description("Comma-separated terms to help with spelling (drug names, procedures, colleagues)").
				Placeholder("e.g., metoprolol, cholecystectomy, Dr. Okafor").
				Value(&keywordsInput),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}

	return parseKeywords(keywordsInput), nil
}

// parseKeywords splits a comma-separated list, dropping blanks and duplicates.
func parseKeywords(input string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(input, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		keywords = append(keywords, p)
	}
	return keywords
}

func selectBackends(existingBackends []string) ([]string, error) {
	options := []huh.Option[string]{
		huh.NewOption("wtype - Type into the focused Wayland window", "wtype"),
		huh.NewOption("ydotool - Works with Chromium/Electron editors (needs ydotoold)", "ydotool"),
		huh.NewOption("clipboard - Copy to clipboard only", "clipboard"),
	}

	selected := existingBackends
	if len(selected) == 0 {
		selected = []string{"wtype", "clipboard"}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Transcript Delivery").
				Description("Backends are tried in order until one succeeds").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("at least one backend required")
	}

	return selected, nil
}

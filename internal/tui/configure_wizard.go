package tui

import (
	"fmt"

	"github.com/wardscribe/voicepanel/internal/config"
)

// runFreshInstall walks through every section once, in order.
func runFreshInstall(cfg *config.Config) (*ConfigureResult, error) {
	clearScreen()
	fmt.Println(Logo())
	fmt.Println()
	fmt.Println(StyleMuted.Render("Dictation for clinical notes"))
	fmt.Println()

	if _, err := editTranscription(cfg, getConfiguredProviders(cfg)); err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}

	if err := editLanguage(cfg); err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}

	keywords, err := inputKeywords(cfg.Keywords)
	if err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}
	cfg.Keywords = keywords

	backends, err := selectBackends(cfg.Injection.Backends)
	if err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}
	cfg.Injection.Backends = backends

	if err := editNotifications(cfg); err != nil {
		return &ConfigureResult{Cancelled: true}, nil
	}

	confirmed, err := showSummary(cfg)
	if err != nil || !confirmed {
		return &ConfigureResult{Cancelled: true}, nil
	}

	return &ConfigureResult{Config: cfg}, nil
}

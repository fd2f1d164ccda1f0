package provider

import (
	"slices"
	"testing"
)

func TestProviderInterface(t *testing.T) {
	providers := []struct {
		name         string
		needsKey     bool
		defaultModel string
		adapter      string
	}{
		{"proxy", false, "voice-command", AdapterProxy},
		{"elevenlabs", true, "scribe_v2", AdapterElevenLabs},
		{"openai", true, "whisper-1", AdapterOpenAI},
		{"groq", true, "whisper-large-v3-turbo", AdapterOpenAI},
	}

	for _, tc := range providers {
		t.Run(tc.name, func(t *testing.T) {
			p := GetProvider(tc.name)
			if p == nil {
				t.Fatalf("GetProvider(%q) returned nil", tc.name)
			}

			if p.Name() != tc.name {
				t.Errorf("Name() = %q, want %q", p.Name(), tc.name)
			}

			if p.RequiresAPIKey() != tc.needsKey {
				t.Errorf("RequiresAPIKey() = %v, want %v", p.RequiresAPIKey(), tc.needsKey)
			}

			if p.DefaultModel() != tc.defaultModel {
				t.Errorf("DefaultModel() = %q, want %q", p.DefaultModel(), tc.defaultModel)
			}

			m, err := FindModel(p, p.DefaultModel())
			if err != nil {
				t.Fatalf("default model not listed: %v", err)
			}
			if m.AdapterType != tc.adapter {
				t.Errorf("AdapterType = %q, want %q", m.AdapterType, tc.adapter)
			}
			if m.Endpoint == nil || m.Endpoint.BaseURL == "" {
				t.Error("default model should have an endpoint")
			}
		})
	}
}

func TestGetProviderNotFound(t *testing.T) {
	p := GetProvider("nonexistent")
	if p != nil {
		t.Errorf("GetProvider(nonexistent) should return nil, got %v", p)
	}
}

func TestListProviders(t *testing.T) {
	providers := ListProviders()
	expected := []string{"elevenlabs", "groq", "openai", "proxy"}

	if !slices.Equal(providers, expected) {
		t.Errorf("ListProviders() = %v, want %v", providers, expected)
	}
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		provider string
		key      string
		valid    bool
	}{
		{"openai", "sk-abc123", true},
		{"openai", "invalid", false},
		{"openai", "", false},
		{"groq", "gsk_abc123", true},
		{"groq", "invalid", false},
		{"elevenlabs", "any-non-empty", true},
		{"elevenlabs", "", false},
		{"proxy", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.provider+"_"+tc.key, func(t *testing.T) {
			p := GetProvider(tc.provider)
			if p.ValidateAPIKey(tc.key) != tc.valid {
				t.Errorf("ValidateAPIKey(%q) = %v, want %v", tc.key, !tc.valid, tc.valid)
			}
		})
	}
}

func TestGetModel(t *testing.T) {
	m, err := GetModel("elevenlabs", "scribe_v1")
	if err != nil {
		t.Fatalf("GetModel('elevenlabs', 'scribe_v1') unexpected error: %v", err)
	}
	if m.ID != "scribe_v1" {
		t.Errorf("GetModel returned model with ID %q, want 'scribe_v1'", m.ID)
	}

	if _, err := GetModel("nonexistent", "whisper-1"); err == nil {
		t.Error("GetModel('nonexistent', ...) should return error")
	}

	if _, err := GetModel("openai", "nonexistent"); err == nil {
		t.Error("GetModel('openai', 'nonexistent') should return error")
	}
}

func TestModelSupportsLanguage(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		code  string
		want  bool
	}{
		{"auto always supported", Model{SupportedLanguages: []string{"en"}}, "", true},
		{"listed", Model{SupportedLanguages: []string{"en", "es"}}, "es", true},
		{"not listed", Model{SupportedLanguages: []string{"en"}}, "fr", false},
		{"empty list accepts anything", Model{}, "xx", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.model.SupportsLanguage(tc.code); got != tc.want {
				t.Errorf("SupportsLanguage(%q) = %v, want %v", tc.code, got, tc.want)
			}
		})
	}
}

func TestValidateModelLanguage(t *testing.T) {
	if err := ValidateModelLanguage("elevenlabs", "scribe_v2", "en"); err != nil {
		t.Errorf("scribe_v2 should accept 'en': %v", err)
	}
	if err := ValidateModelLanguage("elevenlabs", "scribe_v2", "eng"); err != nil {
		t.Errorf("scribe_v2 should accept 'eng': %v", err)
	}
	if err := ValidateModelLanguage("openai", "whisper-1", "eng"); err == nil {
		t.Error("whisper-1 should reject 'eng'")
	}
	if err := ValidateModelLanguage("proxy", "voice-command", "de"); err != nil {
		t.Errorf("proxy should accept any language: %v", err)
	}
	if err := ValidateModelLanguage("nonexistent", "whisper-1", "en"); err == nil {
		t.Error("unknown provider should return error")
	}
}

func TestEnvVarForProvider(t *testing.T) {
	tests := map[string]string{
		"openai":     EnvOpenAIKey,
		"groq":       EnvGroqKey,
		"elevenlabs": EnvElevenLabsKey,
		"proxy":      "",
	}
	for name, want := range tests {
		if got := EnvVarForProvider(name); got != want {
			t.Errorf("EnvVarForProvider(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestLanguageLabel(t *testing.T) {
	if got := LanguageLabel("es"); got != "Spanish (es)" {
		t.Errorf("LanguageLabel('es') = %q, want 'Spanish (es)'", got)
	}
	if got := LanguageLabel(""); got != "" {
		t.Errorf("LanguageLabel('') = %q, want empty", got)
	}
}

func TestLanguageName(t *testing.T) {
	if name, ok := LanguageName("de"); !ok || name != "German" {
		t.Errorf("LanguageName(de) = %q, %v", name, ok)
	}
	if _, ok := LanguageName("zz-!!"); ok {
		t.Error("malformed code should not resolve")
	}
	if got := LanguageLabel("zz-!!"); got != "unrecognized code zz-!!" {
		t.Errorf("LanguageLabel(malformed) = %q", got)
	}
}

package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("NEWS_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}

	if cfg.Assistant.WakeWord != "jarvis" {
		t.Errorf("wake word = %q, want jarvis", cfg.Assistant.WakeWord)
	}
	if len(cfg.Assistant.ExitWords) != 4 {
		t.Errorf("exit words = %v, want four defaults", cfg.Assistant.ExitWords)
	}
	if cfg.Convo.APIKey != "sk-test" {
		t.Errorf("convo api key = %q, want value resolved from OPENAI_API_KEY", cfg.Convo.APIKey)
	}
	if cfg.News.APIKey != "" {
		t.Errorf("news api key = %q, want empty (degraded news)", cfg.News.APIKey)
	}

	for _, site := range []string{"google", "youtube", "instagram", "linkedin", "facebook", "twitter", "reddit"} {
		url, ok := cfg.Sites[site]
		if !ok || !strings.HasPrefix(url, "https://") {
			t.Errorf("sites[%q] = %q, want a canonical https URL", site, url)
		}
	}
	if len(cfg.Music) == 0 {
		t.Error("music library must have default entries")
	}
}

func TestLoad_MissingConvoKeyIsFatal(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(""); err == nil {
		t.Fatal("Load succeeded without a conversational API key, want an error")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JARVISD_ASSISTANT_WAKE_WORD", "computer")
	t.Setenv("JARVISD_NEWS_COUNTRY", "gb")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned %v", err)
	}
	if cfg.Assistant.WakeWord != "computer" {
		t.Errorf("wake word = %q, want env override", cfg.Assistant.WakeWord)
	}
	if cfg.News.Country != "gb" {
		t.Errorf("news country = %q, want env override", cfg.News.Country)
	}
}

func TestResolveEnvRef(t *testing.T) {
	t.Setenv("JARVISD_TEST_SECRET", "hunter2")

	tests := []struct {
		in   string
		want string
	}{
		{"${JARVISD_TEST_SECRET}", "hunter2"},
		{"${JARVISD_TEST_UNSET}", ""},
		{"literal-value", "literal-value"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := resolveEnvRef(tt.in); got != tt.want {
			t.Errorf("resolveEnvRef(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/evidence-screener/constants"
)

// Settings is the persisted on-disk configuration a user can opt into.
// API keys stored here never appear in logs or exports.
type Settings struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model,omitempty"`
	OpenAIAPIKey    string `yaml:"openai_api_key,omitempty"`
	AnthropicAPIKey string `yaml:"anthropic_api_key,omitempty"`
}

// LoadSettings reads a settings file. A missing file is not an error; it
// returns nil so environment configuration stands alone.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &s, nil
}

// SaveSettings writes the settings file with owner-only permissions, since it
// may hold API keys.
func SaveSettings(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Apply overlays persisted settings onto a config loaded from the
// environment. Explicit file values win over env defaults.
func (s *Settings) Apply(cfg *Config) {
	if s == nil {
		return
	}
	if s.Provider != "" {
		if p, err := constants.ParseProvider(s.Provider); err == nil {
			cfg.Provider = p
		}
	}
	if s.Model != "" {
		switch cfg.Provider {
		case constants.ProviderOpenAI:
			cfg.OpenAI.Model = s.Model
		case constants.ProviderAnthropic:
			cfg.Anthropic.Model = s.Model
		}
	}
	if s.OpenAIAPIKey != "" {
		cfg.OpenAI.APIKey = s.OpenAIAPIKey
	}
	if s.AnthropicAPIKey != "" {
		cfg.Anthropic.APIKey = s.AnthropicAPIKey
	}
}

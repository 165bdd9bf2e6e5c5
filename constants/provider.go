package constants

import (
	"fmt"
	"strings"
)

// Provider identifies which model backend handles the review call.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

func ParseProvider(input string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "openai":
		return ProviderOpenAI, nil
	case "anthropic", "claude":
		return ProviderAnthropic, nil
	}
	return "", fmt.Errorf("unknown provider: %q", input)
}

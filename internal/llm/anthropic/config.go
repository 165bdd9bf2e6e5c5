package anthropic

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joseph-ayodele/evidence-screener/constants"
)

const apiVersion = "2023-06-01"

// Config for the Anthropic client.
type Config struct {
	APIKey    string        // if empty, falls back to env ANTHROPIC_API_KEY
	BaseURL   string        // default https://api.anthropic.com
	Model     string        // e.g., "claude-opus-4-20250514"
	MaxTokens int           // response budget, default 20000
	Timeout   time.Duration // covers the whole call, streamed or not

	// StreamThreshold is the estimated token count above which requests run
	// in incremental-delivery mode; deltas are concatenated before returning.
	StreamThreshold int // default 100000
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
	categories []string
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-opus-4-20250514"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 20000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.StreamThreshold <= 0 {
		cfg.StreamThreshold = 100_000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
		categories: constants.AsStringSlice(),
	}
}

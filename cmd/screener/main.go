package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/evidence-screener/constants"
	"github.com/joseph-ayodele/evidence-screener/internal/common"
	"github.com/joseph-ayodele/evidence-screener/internal/extract"
	"github.com/joseph-ayodele/evidence-screener/internal/ingest"
	"github.com/joseph-ayodele/evidence-screener/internal/llm"
	"github.com/joseph-ayodele/evidence-screener/internal/llm/anthropic"
	"github.com/joseph-ayodele/evidence-screener/internal/llm/openai"
	"github.com/joseph-ayodele/evidence-screener/internal/results"
	"github.com/joseph-ayodele/evidence-screener/internal/review"
	"github.com/joseph-ayodele/evidence-screener/internal/screener"
)

func main() {
	app := &cli.App{
		Name:  "screener",
		Usage: "screen PDF articles for inclusion/exclusion with an LLM reviewer",
		Commands: []*cli.Command{
			{
				Name:  "screen",
				Usage: "run a screening batch over a directory of PDFs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "directory of PDF articles", Required: true},
					&cli.StringFlag{Name: "provider", Usage: "LLM provider: openai or anthropic"},
					&cli.StringFlag{Name: "model", Usage: "model name override"},
					&cli.StringFlag{Name: "out-dir", Usage: "export directory (default from OUTPUT_DIR)"},
					&cli.StringFlag{Name: "settings", Usage: "path to a YAML settings file"},
					&cli.BoolFlag{Name: "quiet", Usage: "log errors only"},
				},
				Action: screenAction,
			},
			{
				Name:  "save-settings",
				Usage: "persist provider and model selection to a settings file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "settings", Usage: "path to write", Value: "screener.yaml"},
					&cli.StringFlag{Name: "provider", Usage: "LLM provider: openai or anthropic", Required: true},
					&cli.StringFlag{Name: "model", Usage: "model name"},
				},
				Action: saveSettingsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func screenAction(c *cli.Context) error {
	logger := newLogger(c.Bool("quiet"))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if c.IsSet("settings") || fileExists("screener.yaml") {
		path := c.String("settings")
		if path == "" {
			path = "screener.yaml"
		}
		settings, err := common.LoadSettings(path)
		if err != nil {
			return err
		}
		settings.Apply(cfg)
	}
	if p := c.String("provider"); p != "" {
		provider, err := constants.ParseProvider(p)
		if err != nil {
			return err
		}
		cfg.Provider = provider
	}
	if m := c.String("model"); m != "" {
		switch cfg.Provider {
		case constants.ProviderOpenAI:
			cfg.OpenAI.Model = m
		case constants.ProviderAnthropic:
			cfg.Anthropic.Model = m
		}
	}
	if d := c.String("out-dir"); d != "" {
		cfg.Output.Dir = d
	}

	// systemic misconfiguration blocks the batch before any document runs
	if err := cfg.Validate(); err != nil {
		return err
	}

	reviewer, err := buildReviewer(cfg, logger)
	if err != nil {
		return err
	}

	extractor := extract.NewExtractor(extract.Config{
		Pdftoppm:      cfg.Extract.Pdftoppm,
		Tesseract:     cfg.Extract.Tesseract,
		TesseractLang: cfg.Extract.TesseractLang,
		DPI:           cfg.Extract.DPI,
		MaxPages:      cfg.Extract.MaxPages,
		MinTextChars:  cfg.Extract.MinTextChars,
	}, logger)

	store := results.NewStore(cfg.Model(), logger)
	validator := review.NewValidator(logger)
	processor := screener.NewProcessor(extractor, reviewer, validator, store, logger)

	docs, _, err := ingest.CollectDirectory(c.String("dir"), logger)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no PDF files found in %s", c.String("dir"))
	}

	sum, err := processor.ProcessBatch(context.Background(), docs)
	if err != nil {
		return err
	}

	if err := writeExports(cfg.Output.Dir, store, logger); err != nil {
		return err
	}

	fmt.Printf("Screened %d document(s): %d included, %d excluded", sum.Total, sum.Included, sum.Excluded)
	if sum.Unrecognized > 0 {
		fmt.Printf(", %d unrecognized", sum.Unrecognized)
	}
	fmt.Printf("; %d failed\n", sum.Failed)
	return nil
}

func buildReviewer(cfg *common.Config, logger *slog.Logger) (llm.Reviewer, error) {
	switch cfg.Provider {
	case constants.ProviderOpenAI:
		return openai.NewClient(openai.Config{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.OpenAI.Timeout,
		}, logger), nil
	case constants.ProviderAnthropic:
		return anthropic.NewClient(anthropic.Config{
			APIKey:          cfg.Anthropic.APIKey,
			BaseURL:         cfg.Anthropic.BaseURL,
			Model:           cfg.Anthropic.Model,
			MaxTokens:       cfg.Anthropic.MaxTokens,
			Timeout:         cfg.Anthropic.Timeout,
			StreamThreshold: cfg.Anthropic.StreamThreshold,
		}, logger), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

func writeExports(dir string, store *results.Store, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	csvPath := filepath.Join(dir, store.ResultsFilename())
	var csvBuf bytes.Buffer
	if err := store.ExportCSV(&csvBuf); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	if err := os.WriteFile(csvPath, csvBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}
	logger.Info("export.csv.ok", "path", csvPath)

	xlsxBytes, err := store.ExportXLSX()
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	xlsxPath := filepath.Join(dir, store.XLSXFilename())
	if err := os.WriteFile(xlsxPath, xlsxBytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", xlsxPath, err)
	}
	logger.Info("export.xlsx.saved", "path", xlsxPath)

	if len(store.Failures()) > 0 {
		failCSV := filepath.Join(dir, store.FailuresFilename())
		var fb bytes.Buffer
		if err := store.ExportFailuresCSV(&fb); err != nil {
			return fmt.Errorf("export failures csv: %w", err)
		}
		if err := os.WriteFile(failCSV, fb.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", failCSV, err)
		}

		failTxt := filepath.Join(dir, store.FailuresTextFilename())
		var tb bytes.Buffer
		if err := store.ExportFailuresText(&tb); err != nil {
			return fmt.Errorf("export failures text: %w", err)
		}
		if err := os.WriteFile(failTxt, tb.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", failTxt, err)
		}
		logger.Info("export.failures.ok", "csv", failCSV, "txt", failTxt)
	}
	return nil
}

func saveSettingsAction(c *cli.Context) error {
	provider, err := constants.ParseProvider(c.String("provider"))
	if err != nil {
		return err
	}
	s := &common.Settings{
		Provider: string(provider),
		Model:    strings.TrimSpace(c.String("model")),
	}
	path := c.String("settings")
	if err := common.SaveSettings(path, s); err != nil {
		return err
	}
	fmt.Printf("Settings saved to %s\n", path)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

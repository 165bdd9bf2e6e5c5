package ingest

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/evidence-screener/constants"
	"github.com/joseph-ayodele/evidence-screener/internal/screener"
)

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Loaded  uint32
	Failed  uint32
}

// CollectDirectory walks root, filters by allowed extensions, skips hidden
// entries, and loads each matching file into a Document. Unreadable files are
// counted and logged, never fatal. Documents come back sorted by name so
// batch runs are reproducible.
func CollectDirectory(root string, logger *slog.Logger) ([]screener.Document, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("input directory is required")
	}

	var docs []screener.Document
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			logger.Warn("ingest.walk_error", "path", path, "error", walkErr)
			stats.Failed++
			return nil // continue walking
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return nil
		}
		stats.Matched++

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("ingest.read_failed", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		docs = append(docs, screener.Document{Name: filepath.Base(path), Data: data})
		stats.Loaded++
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })

	logger.Info("ingest.collected",
		"dir", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"loaded", stats.Loaded,
		"failed", stats.Failed,
	)
	return docs, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

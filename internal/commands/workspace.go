package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/finadvisor/internal/activity"
	"github.com/cleared-dev/finadvisor/internal/categorizer"
	"github.com/cleared-dev/finadvisor/internal/config"
	"github.com/cleared-dev/finadvisor/internal/llm"
	"github.com/cleared-dev/finadvisor/internal/logger"
	"github.com/cleared-dev/finadvisor/internal/store"
)

// workspace is an initialized finadvisor directory and its configuration.
type workspace struct {
	dir string
	cfg *config.Config
}

func openWorkspace(dir string) (*workspace, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if err := config.LoadEnv(absDir); err != nil {
		return nil, err
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s in %s, run finadvisor init first", config.FileName, absDir)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.FileName, err)
	}
	return &workspace{dir: absDir, cfg: cfg}, nil
}

// path resolves p against the workspace directory.
func (w *workspace) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.dir, p)
}

func (w *workspace) openStore() (*store.Store, error) {
	st, err := store.Open(w.path(w.cfg.Storage.Path))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}

// newCategorizer builds a categorizer for the configured provider. Without
// an API key it falls back to keyword rules only.
func (w *workspace) newCategorizer(ctx context.Context) (*categorizer.Categorizer, error) {
	completer, err := llm.New(ctx, w.cfg.LLM, w.cfg.LLM.APIKey())
	if err != nil {
		if !errors.Is(err, llm.ErrNoAPIKey) {
			return nil, fmt.Errorf("creating llm client: %w", err)
		}
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("categorizing with keyword rules only")
		completer = nil
	}
	return categorizer.New(completer, w.cfg.Categorization), nil
}

// flushActivity writes the recorder to the activity log. A failed write is
// reported but never fails the command.
func (w *workspace) flushActivity(ctx context.Context, rec *activity.Recorder) {
	if err := rec.Flush(w.dir); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("failed to write activity log")
	}
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/steplab/ocrprep/internal/config"
	"github.com/steplab/ocrprep/internal/engine"
	"github.com/steplab/ocrprep/internal/enhance"
	"github.com/steplab/ocrprep/internal/extract"
	"github.com/steplab/ocrprep/internal/ocr"
	"github.com/steplab/ocrprep/internal/pipeline"
	"github.com/steplab/ocrprep/internal/planner"
	"github.com/steplab/ocrprep/internal/resolve"
	"github.com/steplab/ocrprep/internal/storage"
)

// components bundles the wired collaborators shared by the subcommands.
type components struct {
	store     *storage.LocalStore
	enhancer  *enhance.Orchestrator
	extractor *extract.Extractor
	pipeline  *pipeline.Pipeline
}

// buildComponents wires storage, planner, engine, OCR and orchestrators
// from configuration.
func buildComponents(cfg *config.Config) (*components, error) {
	store, err := storage.NewLocalStore(cfg.Storage.Root)
	if err != nil {
		return nil, err
	}

	client := planner.NewClient(planner.Config{
		Endpoint: cfg.Planner.Endpoint,
		Model:    cfg.Planner.Model,
		APIKey:   cfg.Planner.APIKey,
		Timeout:  time.Duration(cfg.Planner.TimeoutSeconds) * time.Second,
	})

	log := slog.Default()
	enhancer := enhance.NewOrchestrator(store, client, engine.NewExecutor(), log)
	extractor := extract.NewExtractor(store, ocr.NewTesseract(), enhancer, log)
	resolver := resolve.NewResolver(client, log)

	return &components{
		store:     store,
		enhancer:  enhancer,
		extractor: extractor,
		pipeline:  pipeline.New(resolver, extractor, log),
	}, nil
}

// resolveRef turns an argument into a storage reference: an existing
// reference passes through, a filesystem path is imported into storage
// first.
func resolveRef(store *storage.LocalStore, arg string) (string, error) {
	if store.Exists(arg) {
		return arg, nil
	}
	data, err := os.ReadFile(arg) //nolint:gosec // G304: reading a user-provided image path is expected
	if err != nil {
		return "", fmt.Errorf("input %s is neither a stored reference nor a readable file: %w", arg, err)
	}
	ext := filepath.Ext(arg)
	ref, err := store.Save(data, ext, filepath.Base(arg))
	if err != nil {
		return "", fmt.Errorf("import %s into storage: %w", arg, err)
	}
	return ref, nil
}

// Package extract orchestrates OCR runs over stored image references:
// it times each recognition call, persists text and JSON artifacts, and
// returns ordered artifact records. The enhance-and-extract entry point
// delegates variant production to the enhancement orchestrator.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/steplab/ocrprep/internal/enhance"
	"github.com/steplab/ocrprep/internal/ocr"
	"github.com/steplab/ocrprep/internal/plan"
	"github.com/steplab/ocrprep/internal/storage"
)

// Extractor runs the OCR collaborator over image references and
// materializes artifacts.
type Extractor struct {
	store    storage.Store
	engine   ocr.Engine
	enhancer *enhance.Orchestrator
	log      *slog.Logger
}

// NewExtractor wires an extraction orchestrator. The enhancer may be nil
// when only the extract-only entry point is used.
func NewExtractor(store storage.Store, engine ocr.Engine, enhancer *enhance.Orchestrator, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{store: store, engine: engine, enhancer: enhancer, log: log}
}

// ExtractOne reads one image reference, runs OCR with the given options,
// persists the requested artifact files and returns the artifact record.
func (e *Extractor) ExtractOne(ctx context.Context, ref string, opts plan.RunOptions) (Artifact, error) {
	return e.extract(ctx, ref, ref, PromptSentinel, opts)
}

// EnhanceAndExtract produces enhancement variants for baseRef, optionally
// prepends the original reference, and runs OCR sequentially over each in
// deterministic order, returning the ordered artifact list.
func (e *Extractor) EnhanceAndExtract(ctx context.Context, baseRef, prompt string, opts plan.RunOptions) ([]Artifact, error) {
	variantRefs, err := e.enhancer.Enhance(ctx, baseRef, prompt)
	if err != nil {
		return nil, err
	}

	refs := variantRefs
	if opts.IncludeOriginal && !containsFold(variantRefs, baseRef) {
		refs = append([]string{baseRef}, variantRefs...)
	}

	artifacts := make([]Artifact, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		art, err := e.extract(ctx, ref, baseRef, prompt, opts)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", ref, err)
		}
		artifacts = append(artifacts, art)
	}
	return artifacts, nil
}

// extract runs one timed OCR call and persists its artifacts.
func (e *Extractor) extract(ctx context.Context, ref, baseRef, prompt string, opts plan.RunOptions) (Artifact, error) {
	rc, err := e.store.OpenRead(ref)
	if err != nil {
		return Artifact{}, err
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return Artifact{}, fmt.Errorf("read image: %w", err)
	}

	start := time.Now()
	result, err := e.engine.Read(ctx, data, ocr.Options{Language: opts.Language})
	if err != nil {
		return Artifact{}, fmt.Errorf("ocr: %w", err)
	}
	elapsed := time.Since(start)

	art := Artifact{
		ID:      uuid.NewString(),
		Ref:     ref,
		BaseRef: baseRef,
		Prompt:  prompt,
		Elapsed: elapsed.Milliseconds(),
		Result:  result,
	}

	if opts.SaveText {
		path, err := e.store.SaveSidecar([]byte(result.Text), ref, TextSuffix)
		if err != nil {
			return Artifact{}, fmt.Errorf("persist text artifact: %w", err)
		}
		art.TextPath = path
	}
	if opts.SaveJSON {
		encoded, err := json.MarshalIndent(art, "", "  ")
		if err != nil {
			return Artifact{}, fmt.Errorf("encode artifact: %w", err)
		}
		path, err := e.store.SaveSidecar(encoded, ref, JSONSuffix)
		if err != nil {
			return Artifact{}, fmt.Errorf("persist json artifact: %w", err)
		}
		art.JSONPath = path
	}

	e.log.Debug("extraction complete", "ref", ref, "elapsed_ms", art.Elapsed, "chars", len(result.Text))
	return art, nil
}

// containsFold reports whether refs contains ref, comparing
// case-insensitively.
func containsFold(refs []string, ref string) bool {
	for _, r := range refs {
		if strings.EqualFold(r, ref) {
			return true
		}
	}
	return false
}

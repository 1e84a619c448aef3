// Package pipeline is the top-level coordinator: it resolves run options
// from the prompt, then dispatches to extract-only or enhance-and-extract
// mode.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/steplab/ocrprep/internal/extract"
	"github.com/steplab/ocrprep/internal/resolve"
)

// Pipeline wires the options resolver and the extraction orchestrator.
type Pipeline struct {
	resolver  *resolve.Resolver
	extractor *extract.Extractor
	log       *slog.Logger
}

// New creates a pipeline.
func New(resolver *resolve.Resolver, extractor *extract.Extractor, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{resolver: resolver, extractor: extractor, log: log}
}

// Run resolves options for the prompt and executes the matching mode,
// returning the ordered artifact list.
func (p *Pipeline) Run(ctx context.Context, ref, prompt string) ([]extract.Artifact, error) {
	opts, err := p.resolver.Resolve(ctx, prompt)
	if err != nil {
		return nil, err
	}

	mode := modeEnhance
	if !opts.RunEnhancement {
		mode = modeExtractOnly
	}
	p.log.Info("pipeline run", "ref", ref, "mode", mode, "language", opts.Language)

	start := time.Now()
	var artifacts []extract.Artifact
	if opts.RunEnhancement {
		artifacts, err = p.extractor.EnhanceAndExtract(ctx, ref, prompt, opts)
	} else {
		var art extract.Artifact
		art, err = p.extractor.ExtractOne(ctx, ref, opts)
		if err == nil {
			artifacts = []extract.Artifact{art}
		}
	}

	observeRun(mode, err, time.Since(start), len(artifacts))
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

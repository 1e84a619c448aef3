// Package resolve derives run options from free-form instructions. A
// deterministic local keyword pass runs first; the remote planning
// backend is consulted only when no local rule matches, and its failure
// downgrades to defaults instead of failing the run.
package resolve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/steplab/ocrprep/internal/engine"
	"github.com/steplab/ocrprep/internal/plan"
	"github.com/steplab/ocrprep/internal/planner"
)

// rule pairs a predicate over the lowercased prompt with an effect on the
// options being built. Rules within a category run in priority order and
// stop at the first match.
type rule struct {
	match  func(prompt string) bool
	effect func(opts *plan.RunOptions)
}

func containsAny(phrases ...string) func(string) bool {
	return func(prompt string) bool {
		for _, p := range phrases {
			if strings.Contains(prompt, p) {
				return true
			}
		}
		return false
	}
}

// outputRules pick which artifact files are persisted. "only json"
// phrasing wins over "only text", which wins over "no files".
var outputRules = []rule{
	{
		match: containsAny("only json", "json only", "just json", "just the json"),
		effect: func(o *plan.RunOptions) {
			o.SaveJSON = true
			o.SaveText = false
		},
	},
	{
		match: containsAny("only text", "text only", "only txt", "txt only", "just text", "just the text"),
		effect: func(o *plan.RunOptions) {
			o.SaveText = true
			o.SaveJSON = false
		},
	},
	{
		match: containsAny("no files", "don't save", "do not save", "without saving", "no output files"),
		effect: func(o *plan.RunOptions) {
			o.SaveText = false
			o.SaveJSON = false
		},
	},
}

// enhancementOff phrases force a plain OCR run and short-circuit the
// remaining enhancement detection.
var enhancementOff = containsAny(
	"ocr only", "only ocr", "just ocr",
	"do not enhance", "don't enhance", "no enhancement",
	"without enhancement", "skip enhancement",
)

// enhancementKeywords flag enhancement intent: every operation identifier
// from the plan vocabulary plus common enhancement verbs.
var enhancementKeywords = append(engine.KnownOps(),
	"enhance", "enhancement", "improve", "improving",
	"contrast", "clean up", "cleanup", "sharper", "sharpness",
	"readable", "quality", "preprocess", "variant",
)

// Resolver turns prompts into run options.
type Resolver struct {
	planner planner.Planner
	log     *slog.Logger
}

// NewResolver creates a resolver backed by the given planner for the
// remote fallback path.
func NewResolver(p planner.Planner, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{planner: p, log: log}
}

// Resolve derives run options for the prompt. The local keyword pass is
// tried first; any match avoids the remote call entirely. Local rules
// never mutate the language code.
func (r *Resolver) Resolve(ctx context.Context, prompt string) (plan.RunOptions, error) {
	opts := plan.DefaultRunOptions()
	lowered := strings.ToLower(strings.TrimSpace(prompt))
	if lowered == "" {
		return opts, nil
	}

	outputMatched := false
	for _, ru := range outputRules {
		if ru.match(lowered) {
			ru.effect(&opts)
			outputMatched = true
			break
		}
	}

	// On the local path enhancement runs only when explicitly asked for:
	// an off-phrase short-circuits keyword detection entirely.
	enhanceOff := enhancementOff(lowered)
	enhanceOn := !enhanceOff && matchesAnyKeyword(lowered)

	if outputMatched || enhanceOff || enhanceOn {
		opts.RunEnhancement = enhanceOn
		return opts, nil
	}

	remote, err := r.planner.ResolveOptions(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return plan.RunOptions{}, ctx.Err()
		}
		r.log.Warn("options planning failed, using defaults", "error", err)
		return plan.DefaultRunOptions(), nil
	}
	remote.Language = NormalizeLanguage(remote.Language)
	return remote, nil
}

func matchesAnyKeyword(prompt string) bool {
	for _, kw := range enhancementKeywords {
		if strings.Contains(prompt, kw) {
			return true
		}
	}
	return false
}

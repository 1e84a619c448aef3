// Package enhance orchestrates enhancement plan execution: it resolves a
// plan from a prompt via the remote planner, applies the operation engine
// to each variant of the stored base image, and persists the results as
// variant references.
package enhance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/steplab/ocrprep/internal/engine"
	"github.com/steplab/ocrprep/internal/plan"
	"github.com/steplab/ocrprep/internal/planner"
	"github.com/steplab/ocrprep/internal/storage"
)

// variantExt is the encoding the operation engine emits.
const variantExt = ".png"

// Orchestrator coordinates planner, engine and storage for one
// enhancement run.
type Orchestrator struct {
	store   storage.Store
	planner planner.Planner
	exec    *engine.Executor
	log     *slog.Logger
}

// NewOrchestrator wires an enhancement orchestrator.
func NewOrchestrator(store storage.Store, p planner.Planner, exec *engine.Executor, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{store: store, planner: p, exec: exec, log: log}
}

// Enhance produces stored variant references for baseRef according to a
// plan generated from the prompt, in plan order. The whole call aborts on
// plan retrieval or step execution failure; variants written before the
// failure stay in storage but are not returned.
func (o *Orchestrator) Enhance(ctx context.Context, baseRef, prompt string) ([]string, error) {
	if !o.store.Exists(baseRef) {
		return nil, fmt.Errorf("%s: %w", baseRef, storage.ErrNotFound)
	}

	p, err := o.planner.GeneratePlan(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("plan enhancement: %w", err)
	}
	if len(p.Variants) == 0 {
		return nil, planner.ErrEmptyPlan
	}

	refs := make([]string, 0, len(p.Variants))
	for i, variant := range p.Variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ref, err := o.applyVariant(ctx, baseRef, variant, i)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", variant.EffectiveName(), err)
		}
		o.log.Debug("variant stored", "base", baseRef, "ref", ref, "steps", len(variant.Steps))
		refs = append(refs, ref)
	}
	return refs, nil
}

// applyVariant re-reads the base image, runs the variant's steps and
// persists the result under a sequence-indexed suffix.
func (o *Orchestrator) applyVariant(ctx context.Context, baseRef string, v plan.PlanVariant, index int) (string, error) {
	rc, err := o.store.OpenRead(baseRef)
	if err != nil {
		return "", err
	}
	input, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		return "", fmt.Errorf("read base image: %w", err)
	}

	output, err := o.exec.Apply(ctx, input, v.Steps)
	if err != nil {
		return "", err
	}

	suffix := fmt.Sprintf("%03d_%s", index+1, SanitizeVariantName(v.EffectiveName()))
	return o.store.SaveVariant(output, baseRef, suffix, variantExt)
}

// SanitizeVariantName reduces a variant name to alphanumerics,
// underscores and hyphens, falling back to the literal "variant" when
// nothing survives.
func SanitizeVariantName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return plan.DefaultVariantName
	}
	return b.String()
}

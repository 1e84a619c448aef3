// Package planner models the remote natural-language planning backend as
// an injected capability. The orchestrators depend only on the Planner
// interface; the production implementation posts prompts to a
// chat-completion style endpoint and parses the structured JSON reply.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/steplab/ocrprep/internal/plan"
)

// ErrEmptyPlan reports that the planner returned a plan without variants.
var ErrEmptyPlan = errors.New("planner returned no variants")

// Planner turns free-form prompts into structured run decisions.
type Planner interface {
	// GeneratePlan produces an enhancement plan for the prompt.
	GeneratePlan(ctx context.Context, prompt string) (plan.EnhancementPlan, error)

	// ResolveOptions produces run options for the prompt.
	ResolveOptions(ctx context.Context, prompt string) (plan.RunOptions, error)
}

// optionsDocument is the wire shape of the options reply. Pointer fields
// distinguish absent keys from explicit false.
type optionsDocument struct {
	RunEnhancement  *bool  `json:"runEnhancement"`
	IncludeOriginal *bool  `json:"includeOriginal"`
	SaveTxt         *bool  `json:"saveTxt"`
	SaveJSON        *bool  `json:"saveJson"`
	Language        string `json:"language"`
}

// DecodePlanDocument parses the plan document JSON: an object with a
// "variants" array of {name, steps:[{op, params}]}.
func DecodePlanDocument(data []byte) (plan.EnhancementPlan, error) {
	var p plan.EnhancementPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return plan.EnhancementPlan{}, fmt.Errorf("parse plan document: %w", err)
	}
	if p.Variants == nil {
		p.Variants = []plan.PlanVariant{}
	}
	return p, nil
}

// DecodeOptionsDocument parses the options document JSON, merging present
// keys onto the model defaults.
func DecodeOptionsDocument(data []byte) (plan.RunOptions, error) {
	var doc optionsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return plan.RunOptions{}, fmt.Errorf("parse options document: %w", err)
	}
	opts := plan.DefaultRunOptions()
	if doc.RunEnhancement != nil {
		opts.RunEnhancement = *doc.RunEnhancement
	}
	if doc.IncludeOriginal != nil {
		opts.IncludeOriginal = *doc.IncludeOriginal
	}
	if doc.SaveTxt != nil {
		opts.SaveText = *doc.SaveTxt
	}
	if doc.SaveJSON != nil {
		opts.SaveJSON = *doc.SaveJSON
	}
	if lang := strings.TrimSpace(doc.Language); lang != "" {
		opts.Language = lang
	}
	return opts, nil
}

// extractJSON pulls the first JSON object out of a model reply, tolerating
// markdown code fences and surrounding prose.
func extractJSON(content string) (string, error) {
	content = strings.TrimSpace(content)
	if fenced := strings.Index(content, "```"); fenced >= 0 {
		rest := content[fenced+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			content = strings.TrimSpace(rest[:end])
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object in planner reply")
	}
	return content[start : end+1], nil
}

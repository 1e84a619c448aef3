// Package plan defines the data model for image enhancement plans:
// named variants composed of ordered, parameterized pixel operations,
// plus the run options that control a pipeline invocation.
package plan

import (
	"strconv"
	"strings"
)

// DefaultVariantName is used when a plan variant carries no name.
const DefaultVariantName = "variant"

// EnhancementPlan is an ordered set of enhancement variants. The variant
// list is never nil; an empty list is a valid no-op plan, though the
// enhancement orchestrator treats zero variants as a planner failure.
type EnhancementPlan struct {
	Variants []PlanVariant `json:"variants"`
}

// PlanVariant is one enhancement strategy: an ordered list of steps.
// Name uniqueness is not enforced here; save-time disambiguation is the
// orchestrator's job.
type PlanVariant struct {
	Name  string     `json:"name"`
	Steps []PlanStep `json:"steps"`
}

// PlanStep is a single named, parameterized pixel transform. Op is
// matched case-insensitively after trimming. Params holds dynamically
// typed values (number, string or bool); keys are case-insensitive,
// unknown keys are ignored by each operation and missing keys fall back
// to per-operation defaults.
type PlanStep struct {
	Op     string         `json:"op"`
	Params map[string]any `json:"params"`
}

// lookup returns the raw param value for key, matching case-insensitively.
func (s PlanStep) lookup(key string) (any, bool) {
	if s.Params == nil {
		return nil, false
	}
	if v, ok := s.Params[key]; ok {
		return v, true
	}
	for k, v := range s.Params {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// Number returns the param value for key coerced to float64.
// Numeric strings are accepted; anything else reports absence.
func (s PlanStep) Number(key string) (float64, bool) {
	v, ok := s.lookup(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String returns the param value for key as a trimmed string.
func (s PlanStep) String(key string) (string, bool) {
	v, ok := s.lookup(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(str), true
}

// Bool returns the param value for key as a bool. The strings
// "true"/"false" are accepted as well.
func (s PlanStep) Bool(key string) (bool, bool) {
	v, ok := s.lookup(key)
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// EffectiveName returns the variant name, or DefaultVariantName when blank.
func (v PlanVariant) EffectiveName() string {
	name := strings.TrimSpace(v.Name)
	if name == "" {
		return DefaultVariantName
	}
	return name
}

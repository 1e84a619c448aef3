package extract

import (
	"github.com/steplab/ocrprep/internal/ocr"
)

// PromptSentinel marks artifacts produced by an OCR-only run that had no
// originating enhancement prompt.
const PromptSentinel = "(ocr-only)"

// Sidecar file suffixes, relative to the image reference.
const (
	TextSuffix = ".ocr.txt"
	JSONSuffix = ".ocr.json"
)

// Artifact is the durable record of one OCR run over one image
// reference. It is written once and never mutated.
type Artifact struct {
	ID       string     `json:"id"`
	Ref      string     `json:"ref"`
	BaseRef  string     `json:"baseRef"`
	Prompt   string     `json:"prompt"`
	Elapsed  int64      `json:"elapsedMs"`
	Result   ocr.Result `json:"result"`
	TextPath string     `json:"textPath,omitempty"`
	JSONPath string     `json:"jsonPath,omitempty"`
}

package plan

// DefaultLanguage is the OCR language used when nothing overrides it.
const DefaultLanguage = "eng"

// RunOptions controls one pipeline invocation: whether enhancement runs,
// whether the original image joins the OCR set, which artifact files are
// persisted, and the OCR language code.
type RunOptions struct {
	RunEnhancement  bool   `json:"runEnhancement"`
	IncludeOriginal bool   `json:"includeOriginal"`
	SaveText        bool   `json:"saveTxt"`
	SaveJSON        bool   `json:"saveJson"`
	Language        string `json:"language"`
}

// DefaultRunOptions returns the model-level defaults: enhance, include
// the original, persist both artifact kinds, English.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		RunEnhancement:  true,
		IncludeOriginal: true,
		SaveText:        true,
		SaveJSON:        true,
		Language:        DefaultLanguage,
	}
}

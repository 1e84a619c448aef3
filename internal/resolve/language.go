package resolve

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/steplab/ocrprep/internal/plan"
)

// tesseractCodes maps ISO 639-1 bases to the tesseract language codes the
// OCR engine expects.
var tesseractCodes = map[string]string{
	"en": "eng",
	"de": "deu",
	"fr": "fra",
	"es": "spa",
	"it": "ita",
	"pt": "por",
	"nl": "nld",
	"ru": "rus",
	"uk": "ukr",
	"pl": "pol",
	"tr": "tur",
	"ja": "jpn",
	"ko": "kor",
	"zh": "chi_sim",
	"ar": "ara",
	"hi": "hin",
}

// NormalizeLanguage maps a remote-supplied language code or tag (e.g.
// "en", "en-US", "german") to a tesseract code where recognizable.
// Unrecognized values pass through unchanged; blank falls back to the
// default language.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return plan.DefaultLanguage
	}
	// Already a tesseract-style 3+ letter code.
	if len(code) >= 3 && !strings.ContainsAny(code, "-_ ") {
		return strings.ToLower(code)
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, conf := tag.Base()
	if conf == language.No {
		return code
	}
	if mapped, ok := tesseractCodes[base.String()]; ok {
		return mapped
	}
	return code
}

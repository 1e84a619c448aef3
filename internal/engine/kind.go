package engine

import "strings"

// Kind identifies one operation of the plan vocabulary. Unknown names map
// to KindUnsupported, which the executor turns into a fatal error rather
// than a silent default branch.
type Kind int

const (
	KindNone Kind = iota // empty operation name, a no-op
	KindRotate
	KindZoom
	KindAutocontrast
	KindCLAHE
	KindDenoise
	KindBinarize
	KindBrightness
	KindGamma
	KindSharpen
	KindDeskew
	KindUnsupported
)

var kindNames = map[Kind]string{
	KindNone:         "",
	KindRotate:       "rotate",
	KindZoom:         "zoom",
	KindAutocontrast: "autocontrast",
	KindCLAHE:        "clahe",
	KindDenoise:      "denoise",
	KindBinarize:     "binarize",
	KindBrightness:   "brightness",
	KindGamma:        "gamma",
	KindSharpen:      "sharpen",
	KindDeskew:       "deskew",
	KindUnsupported:  "unsupported",
}

// String returns the canonical operation name for the kind.
func (k Kind) String() string { return kindNames[k] }

// ParseKind maps an operation identifier to its Kind. Matching is
// case-insensitive after trimming; the empty name is KindNone.
func ParseKind(op string) Kind {
	switch strings.ToLower(strings.TrimSpace(op)) {
	case "":
		return KindNone
	case "rotate":
		return KindRotate
	case "zoom":
		return KindZoom
	case "autocontrast":
		return KindAutocontrast
	case "clahe":
		return KindCLAHE
	case "denoise":
		return KindDenoise
	case "binarize":
		return KindBinarize
	case "brightness":
		return KindBrightness
	case "gamma":
		return KindGamma
	case "sharpen":
		return KindSharpen
	case "deskew":
		return KindDeskew
	default:
		return KindUnsupported
	}
}

// KnownOps lists the canonical operation names in the plan vocabulary.
// The options resolver uses it for keyword-based intent detection.
func KnownOps() []string {
	return []string{
		"rotate", "zoom", "autocontrast", "clahe", "denoise",
		"binarize", "brightness", "gamma", "sharpen", "deskew",
	}
}

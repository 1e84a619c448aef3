// Package ocr defines the text recognition contract consumed by the
// extraction orchestrator, together with a Tesseract-backed
// implementation. The engine is a black box: image bytes plus a language
// code in, recognized text with optional confidences and word boxes out.
package ocr

import "context"

// Options controls one recognition call.
type Options struct {
	// Language is the engine language code, e.g. "eng". Multiple
	// languages may be joined with "+" (e.g. "eng+deu").
	Language string
}

// Box is a word bounding box in pixel coordinates.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Word is one recognized word. Confidence is engine-defined and optional;
// extraction failures leave it nil rather than failing the call.
type Word struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
	Box        Box      `json:"box"`
}

// Result is the outcome of one recognition call. MeanConfidence is the
// unscaled engine-defined mean over word confidences, absent when no word
// carried one.
type Result struct {
	Text           string   `json:"text"`
	MeanConfidence *float64 `json:"meanConfidence,omitempty"`
	Words          []Word   `json:"words"`
	Engine         string   `json:"engine"`
}

// Engine recognizes text in an encoded image.
type Engine interface {
	Read(ctx context.Context, image []byte, opts Options) (Result, error)
}

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// engineName identifies the Tesseract backend in results.
const engineName = "tesseract"

// Tesseract recognizes text via the system Tesseract installation using
// gosseract. A fresh client is created per call; gosseract clients are
// not safe for concurrent reuse.
type Tesseract struct{}

// NewTesseract creates the Tesseract-backed engine.
func NewTesseract() *Tesseract { return &Tesseract{} }

// Read runs recognition over the encoded image. Word boxes and
// confidences are extracted best-effort; their absence never fails the
// call.
func (t *Tesseract) Read(ctx context.Context, image []byte, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if lang := strings.TrimSpace(opts.Language); lang != "" {
		if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
			return Result{}, fmt.Errorf("set language %q: %w", lang, err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return Result{}, fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	result := Result{
		Text:   strings.TrimSpace(text),
		Engine: engineName,
	}
	result.Words, result.MeanConfidence = wordBoxes(client)
	return result, nil
}

// wordBoxes extracts per-word boxes and confidences. Failures are treated
// as optional data being unavailable.
func wordBoxes(client *gosseract.Client) ([]Word, *float64) {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, nil
	}

	words := make([]Word, 0, len(boxes))
	var sum float64
	var counted int
	for _, bb := range boxes {
		w := Word{
			Text: strings.TrimSpace(bb.Word),
			Box: Box{
				X: bb.Box.Min.X,
				Y: bb.Box.Min.Y,
				W: bb.Box.Dx(),
				H: bb.Box.Dy(),
			},
		}
		conf := bb.Confidence
		w.Confidence = &conf
		sum += conf
		counted++
		words = append(words, w)
	}
	if counted == 0 {
		return words, nil
	}
	mean := sum / float64(counted)
	return words, &mean
}

/**
 * OCR Adapter - gosseract-backed word recognition
 *
 * Thin wrapper over the Tesseract engine. Its only responsibilities are
 * parameter marshaling (segmentation mode, interword-space preservation,
 * combined Thai+Latin language set) and coercing engine output into the
 * RawWord shape. Retry policy lives in the Extractor, not here.
 */

package extract

import (
	"context"

	"github.com/otiai10/gosseract/v2"

	"github.com/courtside/scoreboard-worker/internal/errors"
	"github.com/courtside/scoreboard-worker/internal/logging"
)

// PageSegMode selects how the engine partitions the image into text blocks
// before recognition.
type PageSegMode int

const (
	// SegAuto is automatic block detection, used by the primary pass.
	SegAuto PageSegMode = iota
	// SegSparse tolerates scattered, non-block text layouts at the cost
	// of line coherence, used by the fallback pass.
	SegSparse
)

// String returns the mode name for logs and error details.
func (m PageSegMode) String() string {
	if m == SegSparse {
		return "sparse"
	}
	return "auto"
}

// ProgressFunc receives recognition progress as a percentage 0-100.
// Values reported within one Recognize call never decrease. Progress is an
// observer-style side channel; recognition does not depend on whether it
// is consumed.
type ProgressFunc func(percent int)

// Engine recognizes per-word text, confidence and bounding boxes from an
// encoded image.
type Engine interface {
	Recognize(ctx context.Context, imageData []byte, mode PageSegMode, progress ProgressFunc) ([]RawWord, error)
}

// Tesseract is the gosseract-backed Engine used in production.
type Tesseract struct {
	languages []string
	log       *logging.Logger
}

// NewTesseract creates an adapter for the given tessdata languages.
// Roster graphics mix Thai and English, so the default set is tha+eng.
func NewTesseract(languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"tha", "eng"}
	}
	return &Tesseract{
		languages: languages,
		log:       logging.NewLogger("ocr"),
	}
}

// Recognize runs the engine over imageData with the given segmentation
// mode and returns one RawWord per recognized token. Words without a valid
// bounding box are dropped at this boundary. Engine failure surfaces as an
// OCR_ENGINE_FAILED error; the call is not retried here.
//
// Recognition runs to completion once started; ctx is only consulted
// before the engine call.
func (t *Tesseract) Recognize(ctx context.Context, imageData []byte, mode PageSegMode, progress ProgressFunc) ([]RawWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewOCREngineError(mode.String(), err)
	}

	report := monotonic(progress)
	report(0)

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, errors.NewOCREngineError(mode.String(), err)
	}
	if err := client.SetVariable("preserve_interword_spaces", "1"); err != nil {
		return nil, errors.NewOCREngineError(mode.String(), err)
	}
	if err := client.SetPageSegMode(pageSegMode(mode)); err != nil {
		return nil, errors.NewOCREngineError(mode.String(), err)
	}
	report(10)

	if err := client.SetImageFromBytes(imageData); err != nil {
		return nil, errors.NewOCREngineError(mode.String(), err)
	}
	report(25)

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, errors.NewOCREngineError(mode.String(), err)
	}
	report(90)

	words := make([]RawWord, 0, len(boxes))
	dropped := 0
	for _, box := range boxes {
		// Defensive filtering against malformed engine output.
		if box.Box.Empty() {
			dropped++
			continue
		}
		words = append(words, RawWord{
			Text:       box.Word,
			Confidence: box.Confidence,
			Box: Bounds{
				X0: box.Box.Min.X,
				Y0: box.Box.Min.Y,
				X1: box.Box.Max.X,
				Y1: box.Box.Max.Y,
			},
		})
	}
	report(100)

	t.log.Debug("recognition complete",
		"mode", mode.String(),
		"words", len(words),
		"droppedBoxless", dropped)

	return words, nil
}

func pageSegMode(mode PageSegMode) gosseract.PageSegMode {
	if mode == SegSparse {
		return gosseract.PSM_SPARSE_TEXT
	}
	return gosseract.PSM_AUTO
}

// monotonic wraps a progress callback so reported percentages never
// decrease and nil callbacks are safe to call.
func monotonic(progress ProgressFunc) ProgressFunc {
	last := -1
	return func(percent int) {
		if progress == nil {
			return
		}
		if percent < last {
			percent = last
		}
		last = percent
		progress(percent)
	}
}

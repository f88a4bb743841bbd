/**
 * Extraction Orchestrator - roster screenshot to player name list
 *
 * Drives the pipeline top-down: preprocess -> recognize -> reconstruct
 * lines -> filter names. A primary pass uses automatic page segmentation;
 * if it yields nothing, one fallback pass re-recognizes the same
 * preprocessed raster with sparse-text segmentation. Both passes empty is
 * a NO_NAMES_FOUND failure rather than a silent empty result, because an
 * empty lineup overwriting manually entered names would be the worse
 * outcome.
 */

package extract

import (
	"context"

	"github.com/courtside/scoreboard-worker/internal/errors"
	"github.com/courtside/scoreboard-worker/internal/logging"
)

// Extractor runs the full name-extraction pipeline. Each Extract call owns
// its own buffers; concurrent calls share nothing.
type Extractor struct {
	preprocessor *Preprocessor
	engine       Engine
	filter       *NameFilter
	tuning       Tuning
	log          *logging.Logger
}

// NewExtractor creates an extractor around the given OCR engine.
func NewExtractor(engine Engine, tuning Tuning) *Extractor {
	return &Extractor{
		preprocessor: NewPreprocessor(tuning),
		engine:       engine,
		filter:       NewNameFilter(tuning),
		tuning:       tuning,
		log:          logging.NewLogger("extract"),
	}
}

// Extract recovers up to maxCount plausible player names from a roster
// screenshot, in top-to-bottom, left-to-right reading order. progress, if
// non-nil, receives a non-decreasing percentage 0-100 across both passes.
//
// Failure modes: PREPROCESS_FAILED for undecodable images,
// OCR_ENGINE_FAILED when the engine itself errors (aborts both passes),
// and NO_NAMES_FOUND when both passes complete without producing a single
// qualifying candidate.
func (e *Extractor) Extract(ctx context.Context, imageData []byte, maxCount int, progress ProgressFunc) ([]string, error) {
	report := monotonic(progress)

	raster, width, height, err := e.preprocessor.Preprocess(imageData)
	if err != nil {
		return nil, err
	}

	names, err := e.runPass(ctx, raster, width, height, SegAuto, maxCount, report)
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		e.log.Info("primary pass succeeded", "names", len(names))
		return names, nil
	}

	// The sparse mode trades line coherence for tolerance of scattered
	// layouts; worth one retry when block detection finds nothing.
	e.log.Info("primary pass empty, retrying with sparse segmentation")
	names, err = e.runPass(ctx, raster, width, height, SegSparse, maxCount, report)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.NewNoNamesFoundError(2)
	}

	e.log.Info("fallback pass succeeded", "names", len(names))
	return names, nil
}

func (e *Extractor) runPass(ctx context.Context, raster []byte, width, height int, mode PageSegMode, maxCount int, report ProgressFunc) ([]string, error) {
	words, err := e.engine.Recognize(ctx, raster, mode, report)
	if err != nil {
		return nil, err
	}

	lines := ReconstructLines(words, e.tuning)
	names := e.filter.FilterNames(lines, width, height, maxCount)

	e.log.Debug("pass complete",
		"mode", mode.String(),
		"words", len(words),
		"lines", len(lines),
		"names", len(names))

	return names, nil
}

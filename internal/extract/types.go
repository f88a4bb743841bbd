/**
 * Extraction Types - Shared data structures for the roster name pipeline
 *
 * All entities live within a single extraction invocation; nothing here
 * persists across calls or is mutated after creation.
 */

package extract

// Bounds is an axis-aligned rectangle in pixel coordinates.
type Bounds struct {
	X0 int
	Y0 int
	X1 int
	Y1 int
}

// Width returns the horizontal extent of the rectangle.
func (b Bounds) Width() int {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the rectangle.
func (b Bounds) Height() int {
	return b.Y1 - b.Y0
}

// Union returns the minimal rectangle covering both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	u := b
	if o.X0 < u.X0 {
		u.X0 = o.X0
	}
	if o.Y0 < u.Y0 {
		u.Y0 = o.Y0
	}
	if o.X1 > u.X1 {
		u.X1 = o.X1
	}
	if o.Y1 > u.Y1 {
		u.Y1 = o.Y1
	}
	return u
}

// RawWord is a single recognized token from the OCR engine.
// Confidence is on the engine's 0-100 scale.
type RawWord struct {
	Text       string
	Confidence float64
	Box        Bounds
}

// TextLine is a reconstructed line of words. Text is the space-joined,
// left-to-right ordering of the constituent words, Confidence their mean,
// and Box the union of their bounding boxes.
type TextLine struct {
	Text       string
	Confidence float64
	Box        Bounds
}

// Tuning holds the empirical thresholds of the extraction pipeline.
// The defaults were tuned against sample roster screenshots; deployments
// can override any of them through configuration.
type Tuning struct {
	// UpscaleFactor is the preprocessing upscale applied before OCR.
	UpscaleFactor int

	// LineTolerancePx is the maximum vertical distance between a word's
	// top edge and the current line's reference y for the word to join
	// that line.
	LineTolerancePx int

	// MinWordConfidence drops words below this confidence before line
	// reconstruction.
	MinWordConfidence float64

	// MinLineConfidence drops reconstructed lines below this mean
	// confidence during name filtering.
	MinLineConfidence float64

	// BannerWidthRatio and BannerHeightRatio mark banner-scale text:
	// lines at least this wide (relative to image width) or tall
	// (relative to image height) are sponsor/title banners, not names.
	BannerWidthRatio  float64
	BannerHeightRatio float64

	// HeaderBandRatio excludes lines whose top edge falls within this
	// fraction of the image height (tournament headers).
	HeaderBandRatio float64

	// MinNameLength and MaxNameLength bound candidate text length in runes.
	MinNameLength int
	MaxNameLength int
}

// DefaultTuning returns the pipeline thresholds tuned against sample
// roster screenshots.
func DefaultTuning() Tuning {
	return Tuning{
		UpscaleFactor:     2,
		LineTolerancePx:   18,
		MinWordConfidence: 30,
		MinLineConfidence: 25,
		BannerWidthRatio:  0.90,
		BannerHeightRatio: 0.12,
		HeaderBandRatio:   0.08,
		MinNameLength:     2,
		MaxNameLength:     30,
	}
}

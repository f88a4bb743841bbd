/**
 * Name Candidate Filter - separates player names from roster noise
 *
 * Roster graphics carry sponsor banners, tournament headers, age-group
 * labels and jersey numbers alongside the names. The filter is a pipeline
 * of ordered stages over the reconstructed lines; the noise tables and
 * shape patterns are kept as explicit data so deployments can tune them
 * for different tournament branding or name scripts.
 */

package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/courtside/scoreboard-worker/internal/logging"
)

// noiseLineTokens disqualify a line when its normalized text equals one of
// them, case-insensitively. These are role labels that never belong in a
// lineup even as part of a longer line.
var noiseLineTokens = []string{
	"staff",
	"coach",
	"head coach",
	"trainer",
	"manager",
}

// noiseBrandTokens disqualify a line when they appear anywhere in it.
// Sponsor/brand names and competition-tier labels observed on sample
// roster screenshots.
var noiseBrandTokens = []string{
	"u21",
	"u23",
	"u25",
	"cmu",
	"mikasa",
	"grand sport",
	"est cola",
	"volleyball",
	"championship",
	"tournament",
}

// noiseMarkerPattern matches embedded age-group codes and role markers
// that can ride along inside an otherwise valid name line (e.g. a captain
// tag next to the name). These are stripped rather than disqualifying.
var noiseMarkerPattern = regexp.MustCompile(`(?i)\b(?:u\d{2}|staff|coach|capt\.?)\b`)

// allowedCharsPattern is the full character set a name line may use:
// digits, whitespace, period, apostrophe, hyphen, Thai script and Latin
// letters.
var allowedCharsPattern = regexp.MustCompile(`^[0-9\s.'\-A-Za-z\x{0E00}-\x{0E7F}]+$`)

// namePatterns are the accepted name shapes; a line passes when at least
// one matches. Order mirrors how often each shape occurs on real rosters.
var namePatterns = []*regexp.Regexp{
	// Thai-script name, 2-30 runes including internal spaces.
	regexp.MustCompile(`^[\x{0E00}-\x{0E7F}][\x{0E00}-\x{0E7F} ]{1,29}$`),
	// Single run of Latin letters.
	regexp.MustCompile(`^[A-Za-z]{2,20}$`),
	// Initial plus surname(s): "S. Boonchai", "K. van Dam".
	regexp.MustCompile(`^[A-Z]\. ?[A-Z][A-Za-z]+( [A-Z][A-Za-z]+){0,2}$`),
	// Two to four space-separated Latin words of 2+ letters each.
	regexp.MustCompile(`^[A-Za-z]{2,}( [A-Za-z]{2,}){1,3}$`),
}

// NameFilter classifies reconstructed lines as plausible personal names
// versus noise and produces the final deduplicated name list.
type NameFilter struct {
	tuning     Tuning
	lineTokens []string
	brands     []string
	markers    *regexp.Regexp
	patterns   []*regexp.Regexp
	log        *logging.Logger
}

// NewNameFilter creates a filter with the default noise tables and shape
// patterns.
func NewNameFilter(tuning Tuning) *NameFilter {
	return &NameFilter{
		tuning:     tuning,
		lineTokens: noiseLineTokens,
		brands:     noiseBrandTokens,
		markers:    noiseMarkerPattern,
		patterns:   namePatterns,
		log:        logging.NewLogger("filter"),
	}
}

// FilterNames runs the classification pipeline over lines, which must
// arrive in reading order, and returns at most maxCount unique names in
// that same order. imageWidth and imageHeight are the dimensions of the
// raster the line boxes were measured on.
func (f *NameFilter) FilterNames(lines []TextLine, imageWidth, imageHeight, maxCount int) []string {
	if maxCount <= 0 {
		return nil
	}

	names := make([]string, 0, maxCount)
	seen := make(map[string]struct{}, maxCount)

	for _, line := range lines {
		if len(names) >= maxCount {
			break
		}

		text := Normalize(line.Text)
		length := utf8.RuneCountInString(text)
		if length < f.tuning.MinNameLength || length > f.tuning.MaxNameLength {
			continue
		}
		if line.Confidence < f.tuning.MinLineConfidence {
			continue
		}

		// Banner-scale text is sponsor/title material, not a name.
		if imageWidth > 0 && float64(line.Box.Width()) >= f.tuning.BannerWidthRatio*float64(imageWidth) {
			continue
		}
		if imageHeight > 0 && float64(line.Box.Height()) >= f.tuning.BannerHeightRatio*float64(imageHeight) {
			continue
		}
		// Tournament headers live in the top band of the image.
		if imageHeight > 0 && float64(line.Box.Y0) < f.tuning.HeaderBandRatio*float64(imageHeight) {
			continue
		}

		if !f.looksLikeName(text) {
			continue
		}

		cleaned := f.stripMarkers(text)
		if cleaned == "" || utf8.RuneCountInString(cleaned) > f.tuning.MaxNameLength {
			continue
		}

		key := strings.ToLower(cleaned)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, cleaned)
	}

	return names
}

// looksLikeName applies the shape/script heuristics to a normalized line.
func (f *NameFilter) looksLikeName(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)

	for _, token := range f.lineTokens {
		if lower == token {
			return false
		}
	}
	for _, token := range f.brands {
		if strings.Contains(lower, token) {
			return false
		}
	}

	if !allowedCharsPattern.MatchString(text) {
		return false
	}
	if isNumeric(text) {
		return false
	}

	for _, pattern := range f.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// stripMarkers removes embedded age-group/role markers from a line that
// already passed classification and collapses the leftover whitespace.
func (f *NameFilter) stripMarkers(text string) string {
	return Normalize(f.markers.ReplaceAllString(text, " "))
}

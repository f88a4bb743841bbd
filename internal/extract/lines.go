/**
 * Line Reconstructor - clusters recognized words into text lines
 *
 * Tesseract's own line grouping is unreliable on stylized roster graphics,
 * so lines are rebuilt from word boxes: filter out noise words, sort into
 * reading order, then greedily cluster by vertical proximity.
 */

package extract

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReconstructLines rebuilds text lines from recognized words. Words whose
// normalized text is empty, purely numeric (jersey numbers), shorter than
// two characters, or below the word confidence cutoff are dropped first.
// The remainder is sorted top-to-bottom then left-to-right and folded into
// lines: a word joins the current line while its top edge is within
// LineTolerancePx of the line's reference y, otherwise the line is flushed
// and the word starts a new one. Lines come back in document order.
func ReconstructLines(words []RawWord, tuning Tuning) []TextLine {
	kept := make([]RawWord, 0, len(words))
	for _, w := range words {
		text := Normalize(w.Text)
		if text == "" || utf8.RuneCountInString(text) < 2 {
			continue
		}
		if isNumeric(text) {
			continue
		}
		if w.Confidence < tuning.MinWordConfidence {
			continue
		}
		w.Text = text
		kept = append(kept, w)
	}

	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Box.Y0 != kept[j].Box.Y0 {
			return kept[i].Box.Y0 < kept[j].Box.Y0
		}
		return kept[i].Box.X0 < kept[j].Box.X0
	})

	lines := make([]TextLine, 0, len(kept))
	current := []RawWord{kept[0]}
	referenceY := kept[0].Box.Y0

	for _, w := range kept[1:] {
		if absInt(w.Box.Y0-referenceY) <= tuning.LineTolerancePx {
			current = append(current, w)
			continue
		}
		lines = append(lines, buildLine(current))
		current = []RawWord{w}
		referenceY = w.Box.Y0
	}
	lines = append(lines, buildLine(current))

	return lines
}

// buildLine joins clustered words into one immutable TextLine: text is the
// left-to-right join of the word texts, the box is the union of the word
// boxes, and confidence is the mean of the word confidences.
func buildLine(words []RawWord) TextLine {
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Box.X0 < words[j].Box.X0
	})

	parts := make([]string, len(words))
	box := words[0].Box
	sum := 0.0
	for i, w := range words {
		parts[i] = w.Text
		box = box.Union(w.Box)
		sum += w.Confidence
	}

	return TextLine{
		Text:       strings.Join(parts, " "),
		Confidence: sum / float64(len(words)),
		Box:        box,
	}
}

// isNumeric reports whether every rune in s is a decimal digit.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

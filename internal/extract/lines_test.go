package extract

import "testing"

func word(text string, conf float64, x0, y0, x1, y1 int) RawWord {
	return RawWord{
		Text:       text,
		Confidence: conf,
		Box:        Bounds{X0: x0, Y0: y0, X1: x1, Y1: y1},
	}
}

func TestReconstructLines(t *testing.T) {
	tuning := DefaultTuning()

	tests := []struct {
		name  string
		words []RawWord
		want  []string
	}{
		{
			name:  "empty input",
			words: nil,
			want:  nil,
		},
		{
			name: "nearby words merge into one line",
			words: []RawWord{
				word("Anna", 85, 100, 300, 160, 320),
				word("Lee", 82, 170, 302, 210, 322),
			},
			want: []string{"Anna Lee"},
		},
		{
			name: "distant rows form separate lines",
			words: []RawWord{
				word("Anna", 85, 100, 300, 160, 320),
				word("Malee", 80, 100, 360, 180, 380),
			},
			want: []string{"Anna", "Malee"},
		},
		{
			name: "jersey numbers dropped",
			words: []RawWord{
				word("12", 95, 40, 300, 70, 320),
				word("Anna", 85, 100, 300, 160, 320),
				word("Lee", 82, 170, 302, 210, 322),
			},
			want: []string{"Anna Lee"},
		},
		{
			name: "low confidence words dropped",
			words: []RawWord{
				word("Anna", 85, 100, 300, 160, 320),
				word("x#@!", 12, 170, 302, 210, 322),
			},
			want: []string{"Anna"},
		},
		{
			name: "single character words dropped",
			words: []RawWord{
				word("A", 90, 80, 300, 95, 320),
				word("Anna", 85, 100, 300, 160, 320),
			},
			want: []string{"Anna"},
		},
		{
			name: "words join left to right regardless of arrival order",
			words: []RawWord{
				word("Lee", 82, 170, 302, 210, 322),
				word("Anna", 85, 100, 300, 160, 320),
			},
			want: []string{"Anna Lee"},
		},
		{
			name: "lines come back top to bottom",
			words: []RawWord{
				word("Malee", 80, 100, 360, 180, 380),
				word("Anna", 85, 100, 300, 160, 320),
				word("Siri", 88, 100, 420, 150, 440),
			},
			want: []string{"Anna", "Malee", "Siri"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := ReconstructLines(tt.words, tuning)
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d: %+v", len(lines), len(tt.want), lines)
			}
			for i, line := range lines {
				if line.Text != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, line.Text, tt.want[i])
				}
			}
		})
	}
}

func TestReconstructLinesUnionAndConfidence(t *testing.T) {
	tuning := DefaultTuning()
	lines := ReconstructLines([]RawWord{
		word("Anna", 90, 100, 300, 160, 320),
		word("Lee", 70, 170, 305, 210, 325),
	}, tuning)

	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}

	line := lines[0]
	wantBox := Bounds{X0: 100, Y0: 300, X1: 210, Y1: 325}
	if line.Box != wantBox {
		t.Errorf("line box = %+v, want %+v", line.Box, wantBox)
	}
	if line.Confidence != 80 {
		t.Errorf("line confidence = %v, want 80", line.Confidence)
	}
}

func TestReconstructLinesToleranceBoundary(t *testing.T) {
	tuning := DefaultTuning()

	// Exactly at the tolerance the word still joins the line.
	atBoundary := ReconstructLines([]RawWord{
		word("Anna", 85, 100, 300, 160, 320),
		word("Lee", 82, 170, 300+tuning.LineTolerancePx, 210, 340),
	}, tuning)
	if len(atBoundary) != 1 {
		t.Errorf("words %dpx apart should merge, got %d lines", tuning.LineTolerancePx, len(atBoundary))
	}

	// One past the tolerance it starts a new line.
	pastBoundary := ReconstructLines([]RawWord{
		word("Anna", 85, 100, 300, 160, 320),
		word("Lee", 82, 170, 301+tuning.LineTolerancePx, 210, 341),
	}, tuning)
	if len(pastBoundary) != 2 {
		t.Errorf("words %dpx apart should split, got %d lines", tuning.LineTolerancePx+1, len(pastBoundary))
	}
}

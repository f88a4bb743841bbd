package extract

import (
	"reflect"
	"testing"
)

const (
	testImageWidth  = 1000
	testImageHeight = 800
)

// bodyLine places a line in the roster body: below the header band and well
// under the banner size cutoffs.
func bodyLine(text string, conf float64) TextLine {
	return TextLine{
		Text:       text,
		Confidence: conf,
		Box:        Bounds{X0: 100, Y0: 300, X1: 400, Y1: 330},
	}
}

func TestFilterNames(t *testing.T) {
	filter := NewNameFilter(DefaultTuning())

	tests := []struct {
		name  string
		lines []TextLine
		want  []string
	}{
		{
			name:  "empty input",
			lines: nil,
			want:  []string{},
		},
		{
			name: "latin names pass",
			lines: []TextLine{
				bodyLine("Anna Lee", 85),
				bodyLine("Somchai", 78),
			},
			want: []string{"Anna Lee", "Somchai"},
		},
		{
			name: "thai names pass",
			lines: []TextLine{
				bodyLine("สมชาย ใจดี", 72),
			},
			want: []string{"สมชาย ใจดี"},
		},
		{
			name: "initial plus surname passes",
			lines: []TextLine{
				bodyLine("S. Boonchai", 80),
			},
			want: []string{"S. Boonchai"},
		},
		{
			name: "role labels dropped",
			lines: []TextLine{
				bodyLine("STAFF", 90),
				bodyLine("Coach", 90),
				bodyLine("Head Coach", 90),
				bodyLine("Anna Lee", 85),
			},
			want: []string{"Anna Lee"},
		},
		{
			name: "age group and sponsor lines dropped",
			lines: []TextLine{
				bodyLine("U21 Division", 90),
				bodyLine("U25", 90),
				bodyLine("CMU Volleyball", 90),
				bodyLine("EST Cola Cup", 90),
				bodyLine("Anna Lee", 85),
			},
			want: []string{"Anna Lee"},
		},
		{
			name: "embedded markers stripped from surviving names",
			lines: []TextLine{
				bodyLine("STAFF John Smith", 85),
			},
			want: []string{"John Smith"},
		},
		{
			name: "pure numbers dropped",
			lines: []TextLine{
				bodyLine("2024", 95),
				bodyLine("Anna Lee", 85),
			},
			want: []string{"Anna Lee"},
		},
		{
			name: "disallowed characters dropped",
			lines: []TextLine{
				bodyLine("Anna@Lee", 85),
				bodyLine("Somchai", 78),
			},
			want: []string{"Somchai"},
		},
		{
			name: "low confidence lines dropped",
			lines: []TextLine{
				bodyLine("Anna Lee", 10),
				bodyLine("Somchai", 78),
			},
			want: []string{"Somchai"},
		},
		{
			name: "too long lines dropped",
			lines: []TextLine{
				bodyLine("Extraordinarily Long Nameline Beyond Cap", 85),
				bodyLine("Somchai", 78),
			},
			want: []string{"Somchai"},
		},
		{
			name: "case insensitive dedup keeps first occurrence",
			lines: []TextLine{
				bodyLine("Anna Lee", 85),
				bodyLine("ANNA LEE", 80),
				bodyLine("Somchai", 78),
			},
			want: []string{"Anna Lee", "Somchai"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.FilterNames(tt.lines, testImageWidth, testImageHeight, 7)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterNames() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNamesSpatial(t *testing.T) {
	filter := NewNameFilter(DefaultTuning())

	tests := []struct {
		name string
		line TextLine
		kept bool
	}{
		{
			name: "body line kept",
			line: bodyLine("Anna Lee", 85),
			kept: true,
		},
		{
			name: "banner width excluded",
			line: TextLine{
				Text:       "Anna Lee",
				Confidence: 85,
				// 950px wide on a 1000px image.
				Box: Bounds{X0: 25, Y0: 300, X1: 975, Y1: 330},
			},
			kept: false,
		},
		{
			name: "banner height excluded",
			line: TextLine{
				Text:       "Anna Lee",
				Confidence: 85,
				// 120px tall on an 800px image.
				Box: Bounds{X0: 100, Y0: 300, X1: 400, Y1: 420},
			},
			kept: false,
		},
		{
			name: "header band excluded",
			line: TextLine{
				Text:       "Anna Lee",
				Confidence: 85,
				// Top edge at 5% of the image height.
				Box: Bounds{X0: 100, Y0: 40, X1: 400, Y1: 70},
			},
			kept: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.FilterNames([]TextLine{tt.line}, testImageWidth, testImageHeight, 7)
			if tt.kept && len(got) != 1 {
				t.Errorf("expected line to be kept, got %v", got)
			}
			if !tt.kept && len(got) != 0 {
				t.Errorf("expected line to be excluded, got %v", got)
			}
		})
	}
}

func TestFilterNamesMaxCount(t *testing.T) {
	filter := NewNameFilter(DefaultTuning())

	lines := []TextLine{
		bodyLine("Anna", 85),
		bodyLine("Malee", 84),
		bodyLine("Siri", 83),
		bodyLine("Nok", 82),
	}

	got := filter.FilterNames(lines, testImageWidth, testImageHeight, 2)
	want := []string{"Anna", "Malee"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterNames() with maxCount=2 = %v, want %v", got, want)
	}

	if got := filter.FilterNames(lines, testImageWidth, testImageHeight, 0); len(got) != 0 {
		t.Errorf("FilterNames() with maxCount=0 = %v, want empty", got)
	}
}

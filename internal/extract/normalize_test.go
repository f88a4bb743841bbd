package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"already clean", "Anna Lee", "Anna Lee"},
		{"collapses internal whitespace", "Anna \t Lee", "Anna Lee"},
		{"collapses newlines", "Anna\nLee", "Anna Lee"},
		{"trims edges", "  Anna Lee  ", "Anna Lee"},
		{"curly double quotes", "“Ace” Lee", `"Ace" Lee`},
		{"curly single quotes", "O’Brien", "O'Brien"},
		{"whitespace only", " \t\n ", ""},
		{"thai text untouched", "สมชาย ใจดี", "สมชาย ใจดี"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "  Anna\t Lee ", "“quoted”", "สมชาย  ใจดี"}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

package roster

import (
	"reflect"
	"testing"
)

func TestFillLineup(t *testing.T) {
	tests := []struct {
		name    string
		players []string
		names   []string
		slots   int
		want    []string
	}{
		{
			name:    "fills empty lineup",
			players: nil,
			names:   []string{"Anna Lee", "Somchai"},
			slots:   4,
			want:    []string{"Anna Lee", "Somchai", "", ""},
		},
		{
			name:    "partial fill keeps prior values in uncovered slots",
			players: []string{"Old One", "Old Two", "Old Three"},
			names:   []string{"Anna Lee"},
			slots:   3,
			want:    []string{"Anna Lee", "Old Two", "Old Three"},
		},
		{
			name:    "empty extracted name keeps prior value",
			players: []string{"Old One", "Old Two"},
			names:   []string{"", "Anna Lee"},
			slots:   2,
			want:    []string{"Old One", "Anna Lee"},
		},
		{
			name:    "extra names beyond slots ignored",
			players: nil,
			names:   []string{"Anna", "Malee", "Siri"},
			slots:   2,
			want:    []string{"Anna", "Malee"},
		},
		{
			name:    "existing lineup longer than slots is preserved",
			players: []string{"One", "Two", "Three", "Four"},
			names:   []string{"Anna"},
			slots:   2,
			want:    []string{"Anna", "Two", "Three", "Four"},
		},
		{
			name:    "no names leaves lineup padded but unchanged",
			players: []string{"One"},
			names:   nil,
			slots:   3,
			want:    []string{"One", "", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			playersBefore := append([]string(nil), tt.players...)

			got := fillLineup(tt.players, tt.names, tt.slots)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fillLineup() = %v, want %v", got, tt.want)
			}

			if !reflect.DeepEqual(tt.players, playersBefore) {
				t.Errorf("fillLineup mutated its input: %v", tt.players)
			}
		})
	}
}

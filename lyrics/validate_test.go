package lyrics

import (
	"errors"
	"strings"
	"testing"
)

func validSong() *Song {
	return &Song{
		Properties: Properties{Titles: []Title{{Value: "Amazing Grace"}}},
		Verses: []Section{{
			Name:  "v1",
			Lines: []Line{{Content: []ContentItem{Text("Amazing grace")}}},
		}},
		Instruments: []Section{{
			Name:  "i1",
			Lines: []Line{{Content: []ContentItem{BeatItem(Chord{Root: "C"})}}},
		}},
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(validSong()); err != nil {
		t.Fatalf("Validate(valid song) error: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Song)
		wantErr error
		wantMsg string
	}{
		{"no titles", func(s *Song) { s.Properties.Titles = nil }, nil, "Titles is required"},
		{"empty line", func(s *Song) { s.Verses[0].Lines[0].Content = nil }, nil, "Content is required"},
		{"bad tempo type", func(s *Song) { s.Properties.TempoType = "fast" }, nil, "must be one of"},
		{"bad kind", func(s *Song) { s.Verses[0].Lines[0].Content[0].Kind = "bogus" }, nil, "Kind"},
		{"beat in verse", func(s *Song) {
			s.Verses[0].Lines[0].Content = append(s.Verses[0].Lines[0].Content, BeatItem(Chord{Root: "C"}))
		}, ErrDisallowedContentKind, ""},
		{"comment in instrument", func(s *Song) {
			s.Instruments[0].Lines[0].Content = []ContentItem{Comment("x")}
		}, ErrDisallowedContentKind, ""},
		{"beat chord with value", func(s *Song) {
			s.Instruments[0].Lines[0].Content = []ContentItem{BeatItem(Chord{Root: "C"}, Chord{Root: "E"}.Spanning("la"))}
		}, nil, "chord 2 in beat spans text"},
		{"chord without chord", func(s *Song) {
			s.Verses[0].Lines[0].Content = []ContentItem{{Kind: ContentChord}}
		}, nil, "chord item without chord"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := validSong()
			tt.mutate(song)
			err := Validate(song)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

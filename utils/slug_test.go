package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Temples", "temples"},
		{"spaces", "Hill Stations", "hill-stations"},
		{"punctuation and double spaces", "Mountain  Retreats!!", "mountain-retreats"},
		{"leading and trailing junk", "  --Pilgrimage Routes-- ", "pilgrimage-routes"},
		{"digits", "Top 10 Stays", "top-10-stays"},
		{"unicode stripped", "Café & Chai", "caf-chai"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

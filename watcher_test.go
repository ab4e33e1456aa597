package dino

import "testing"

func TestRelevantFileFilter(t *testing.T) {
	cases := map[string]bool{
		"config.yml":          true,
		"/proj/config.yml":    true,
		"index.ts":            true,
		"lib/helper.js":       true,
		"README.md":           false,
		"image.png":           false,
		"/proj/.gitignore":    false,
	}
	for name, want := range cases {
		if got := relevant(name); got != want {
			t.Errorf("relevant(%q) = %v, want %v", name, got, want)
		}
	}
}

// Package embedded ships the demo scores compiled into the binary, so the
// API can hand clients something to harmonize without any external storage.
package embedded

import (
	_ "embed"
)

//go:embed data/scores/scalar_melody.musicxml
var ScalarMelodyXML []byte

//go:embed data/scores/aria_fragment.musicxml
var AriaFragmentXML []byte

// ExampleScore is one embedded demo score.
type ExampleScore struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ExampleScores returns the demo scores in a stable order.
func ExampleScores() []ExampleScore {
	return []ExampleScore{
		{
			ID:       "scalar-melody",
			Title:    "Scalar Melody in C",
			Filename: "scalar_melody.musicxml",
			Content:  string(ScalarMelodyXML),
		},
		{
			ID:       "aria-fragment",
			Title:    "Aria Fragment in G",
			Filename: "aria_fragment.musicxml",
			Content:  string(AriaFragmentXML),
		},
	}
}

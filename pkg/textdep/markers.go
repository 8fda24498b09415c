// Package textdep detects dependency language in free-form work item text.
// It is a marker-phrase scanner, not an NLP pipeline: entity extraction is
// explicitly out of scope.
package textdep

import "strings"

// Markers are the phrases that signal a dependency relationship, checked in
// order against the lowercased text.
var Markers = []string{
	"depends on",
	"dependent on",
	"blocked by",
	"blocks",
	"requires",
	"required by",
	"waiting for",
	"until",
}

// Mention is one marker hit with the sentence that contained it.
type Mention struct {
	Marker   string `json:"marker"`
	Sentence string `json:"sentence"`
}

// Analysis is the result of scanning one text.
type Analysis struct {
	Dependencies         []Mention `json:"dependencies"`
	HasDependencyMarkers bool      `json:"has_dependency_markers"`
}

// Analyze scans text for dependency markers and returns every sentence that
// mentions one. A marker appearing in several sentences produces one mention
// per sentence.
func Analyze(text string) Analysis {
	lower := strings.ToLower(text)
	sentences := splitSentences(text)

	var mentions []Mention
	for _, marker := range Markers {
		if !strings.Contains(lower, marker) {
			continue
		}
		for _, sent := range sentences {
			if strings.Contains(strings.ToLower(sent), marker) {
				mentions = append(mentions, Mention{Marker: marker, Sentence: sent})
			}
		}
	}

	return Analysis{
		Dependencies:         mentions,
		HasDependencyMarkers: len(mentions) > 0,
	}
}

// splitSentences breaks text on terminal punctuation. Good enough for work
// item descriptions; abbreviations are rare in that corpus.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Package names validates candidate executive names, gating the extraction
// pipeline against false positives.
package names

import (
	"regexp"

	"github.com/jdkato/prose/v2"
)

// PersonNameClassifier decides whether a string plausibly names a person.
// The variant is chosen once at validator construction, not per call.
type PersonNameClassifier interface {
	IsPerson(name string) bool
}

// capitalizedPair matches two consecutive capitalized words with lowercase
// remainders, e.g. "Jane Doe".
var capitalizedPair = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+`)

// HeuristicClassifier is the structural fallback when no NER model is wanted:
// it accepts text starting with at least two consecutive capitalized words.
type HeuristicClassifier struct{}

// IsPerson reports whether name matches the capitalized-pair heuristic.
func (HeuristicClassifier) IsPerson(name string) bool {
	return capitalizedPair.MatchString(name)
}

// ModelClassifier uses named-entity recognition to decide whether text is
// tagged as a person entity.
type ModelClassifier struct{}

// IsPerson reports whether the NER model tags name as a person.
func (ModelClassifier) IsPerson(name string) bool {
	doc, err := prose.NewDocument(name, prose.WithSegmentation(false))
	if err != nil {
		return false
	}
	for _, ent := range doc.Entities() {
		if ent.Label == "PERSON" {
			return true
		}
	}
	return false
}

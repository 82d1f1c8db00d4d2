package model

import "math"

// Entity is a single named entity extracted from a crawled page.
// Entities are produced by the entity extraction service and carry a
// salience score describing how central the entity is to the page.
type Entity struct {
	// Source is the normalized URL of the page the entity was found on.
	Source string `json:"source"`

	// Name is the entity name as returned by the extraction service
	// (e.g., "Google", "New York").
	Name string `json:"name"`

	// Salience is the importance score of the entity within its source
	// document, in the range [0, 1]. Higher means more central.
	Salience float64 `json:"salience"`

	// Category is the entity type reported by the extraction service
	// (e.g., "ORGANIZATION", "LOCATION", "PERSON").
	Category string `json:"category"`
}

// MinSalience is the default salience threshold. Entities scoring below
// this value are noise (boilerplate words, stray tokens) and are dropped
// before aggregation.
const MinSalience = 0.01

// RoundSalience rounds a salience score to four decimal places.
// Scores are rounded once at ingestion so that exports, statistics, and
// stored reports all agree on the same value.
func RoundSalience(s float64) float64 {
	return math.Round(s*10000) / 10000
}

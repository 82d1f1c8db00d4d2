// Package entity turns crawled pages into named entities.
//
// ExtractText reduces an HTML page to the human-readable text a visitor
// would actually read, stripping navigation, scripts, and cookie banners.
// Client sends that text to the Google Cloud Natural Language API and maps
// the response into model.Entity values, filtered by a salience threshold.
//
// The Extractor interface decouples the pipeline from the concrete API
// client so tests can substitute fakes.
package entity

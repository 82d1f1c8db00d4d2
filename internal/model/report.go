package model

import "time"

// ScanReport is the main scan result structure.
// It accumulates everything collected while crawling and analyzing one
// site: the BFS-ordered list of crawled URLs, the extracted entities,
// and the computed statistics.
//
// Design decision: We use a single struct rather than separate crawl and
// analysis results because the pipeline steps build on each other's
// output, and a single struct simplifies serialization and database
// storage.
type ScanReport struct {
	// Site is the host of the scanned domain (e.g., "example.com").
	Site string `json:"site"`

	// SeedURL is the normalized URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// DateScanned is the timestamp when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// CrawledURLs contains the normalized URLs actually processed,
	// in breadth-first order. A URL appears here even when its fetch
	// later failed; failed pages simply contribute no entities.
	CrawledURLs []string `json:"crawled_urls"`

	// Entities contains all extracted entities across crawled pages,
	// already filtered by the configured salience threshold.
	Entities []Entity `json:"entities,omitempty"`

	// Stats contains aggregate statistics over Entities.
	// Computed by the stats pipeline step; nil until then.
	Stats *Statistics `json:"stats,omitempty"`

	// PerformedSteps lists the pipeline steps that were executed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// TimedOut is true if the scan was terminated due to cancellation.
	TimedOut bool `json:"timed_out"`

	// Error contains any error that occurred during scanning.
	// Only set if the scan failed or partially failed.
	Error error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewScanReport creates a new report for the given site.
func NewScanReport(site string) *ScanReport {
	return &ScanReport{
		Site:        site,
		DateScanned: time.Now(),
		CrawledURLs: make([]string, 0),
		Entities:    make([]Entity, 0),
	}
}

// AddEntities appends extracted entities to the report.
func (r *ScanReport) AddEntities(entities []Entity) {
	r.Entities = append(r.Entities, entities...)
}

// PagesCrawled returns the number of pages processed by the crawl.
func (r *ScanReport) PagesCrawled() int {
	return len(r.CrawledURLs)
}

// PagesAnalyzed returns the number of distinct pages that yielded at
// least one entity.
func (r *ScanReport) PagesAnalyzed() int {
	seen := make(map[string]struct{})
	for _, e := range r.Entities {
		seen[e.Source] = struct{}{}
	}
	return len(seen)
}

// EnsureStats computes statistics if they have not been computed yet.
// Report writers call this so that output never shows a half-built report.
func (r *ScanReport) EnsureStats() {
	if r.Stats == nil {
		r.Stats = NewStatistics(r.Entities)
	}
}

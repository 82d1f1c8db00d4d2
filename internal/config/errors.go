package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoSeed is returned when no seed URL is specified.
	ErrNoSeed = errors.New("no seed URL specified: provide at least one URL to crawl")

	// ErrInvalidMaxPages is returned when the page limit is outside the
	// supported range. The upper bound keeps a single scan affordable in
	// both crawl time and entity extraction API calls.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be between 1 and 50")

	// ErrInvalidMaxDepth is returned when the crawl depth is outside the
	// supported range. Depth 0 crawls only the seed page.
	ErrInvalidMaxDepth = errors.New("invalid depth: must be between 0 and 3")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMinSalience is returned when the salience threshold is
	// outside [0, 1], the range salience scores are defined on.
	ErrInvalidMinSalience = errors.New("invalid min salience: must be between 0 and 1")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown, and --csv is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: use at most one of --json, --markdown, --csv")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)

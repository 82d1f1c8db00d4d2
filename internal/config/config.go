package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/seoscan/internal/crawler"
)

// Default configuration values.
// These match the limits the tool was designed around: a quick, bounded
// scan of one site that stays within entity extraction API quotas.
const (
	// DefaultMaxPages keeps a default scan small. Entity extraction is
	// billed per document, so every crawled page has a direct cost.
	DefaultMaxPages = 10

	// MaxPagesLimit is the hard upper bound accepted from flags and
	// config files.
	MaxPagesLimit = 50

	// DefaultMaxDepth of 2 reaches the pages linked from the seed and
	// their links, which covers the main content of most small sites.
	DefaultMaxDepth = 2

	// MaxDepthLimit bounds the depth flag. Beyond depth 3 the page limit
	// dominates anyway.
	MaxDepthLimit = 3

	// DefaultFetchTimeout is the per-page timeout while crawling.
	// Crawling favors moving on over waiting: a page slower than this
	// is treated as unavailable.
	DefaultFetchTimeout = 5 * time.Second

	// DefaultAnalyzeTimeout is the per-page timeout when fetching page
	// text for entity extraction. More generous than the crawl timeout
	// because at this point the page is known to exist.
	DefaultAnalyzeTimeout = 10 * time.Second

	// DefaultBatchSize is the number of concurrent site scans in batch
	// mode. Each scan fans out its own HTTP requests, so a small number
	// of concurrent sites is enough to saturate a home connection.
	DefaultBatchSize = 4

	// DefaultMinSalience drops entities the extraction service considers
	// marginal to the page.
	DefaultMinSalience = 0.01

	// DefaultUserAgent identifies seoscan in HTTP requests.
	// A descriptive User-Agent lets site operators identify scanner
	// traffic in their logs.
	DefaultUserAgent = crawler.DefaultUserAgent

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 10MB is sufficient for any HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"
)

// Config holds all configuration options for seoscan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Seeds is the list of URLs to scan. Each seed defines its own
	// crawl domain; a scheme-less entry like "example.com" is accepted.
	Seeds []string

	// MaxPages is the maximum number of pages to crawl per site,
	// counting pages whose fetch later fails.
	MaxPages int

	// MaxDepth is the maximum link distance from the seed.
	// Depth 0 means only the seed page is fetched.
	MaxDepth int

	// FetchTimeout is the per-request timeout during crawling.
	FetchTimeout time.Duration

	// AnalyzeTimeout is the per-request timeout when re-fetching pages
	// for text extraction.
	AnalyzeTimeout time.Duration

	// APIKey authenticates against the entity extraction API.
	// Taken from --api-key or the GOOGLE_API_KEY environment variable.
	APIKey string

	// MinSalience drops entities scoring below this threshold.
	MinSalience float64

	// NoAnalyze skips entity extraction entirely; the scan reports only
	// the crawled URLs. Useful without an API key.
	NoAnalyze bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent site scans in batch mode.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .seoscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-domain configurations loaded from the
	// config file. Populated by LoadConfigFile.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport
	// and CSVReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output with tables and a
	// category pie chart. Mutually exclusive with JSONReport and
	// CSVReport.
	MarkdownReport bool

	// CSVReport enables CSV entity export. Mutually exclusive with
	// JSONReport and MarkdownReport.
	CSVReport bool

	// FilterCategories restricts report output to entities in these
	// categories. Empty means all categories.
	FilterCategories []string

	// FilterQuery restricts report output to entities whose name
	// contains this substring, case-insensitively.
	FilterQuery string

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// When set, scan results are saved for historical comparison.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, limits).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:       DefaultMaxPages,
		MaxDepth:       DefaultMaxDepth,
		FetchTimeout:   DefaultFetchTimeout,
		AnalyzeTimeout: DefaultAnalyzeTimeout,
		MinSalience:    DefaultMinSalience,
		BatchSize:      DefaultBatchSize,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for seoscan.
// On Linux: ~/.local/share/seoscan
// On macOS: ~/Library/Application Support/seoscan
// On Windows: %LOCALAPPDATA%\seoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seoscan.
// On Linux: ~/.config/seoscan
// On macOS: ~/Library/Application Support/seoscan
// On Windows: %APPDATA%\seoscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scanning begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	if c.MaxPages < 1 || c.MaxPages > MaxPagesLimit {
		return ErrInvalidMaxPages
	}

	if c.MaxDepth < 0 || c.MaxDepth > MaxDepthLimit {
		return ErrInvalidMaxDepth
	}

	if c.FetchTimeout <= 0 || c.AnalyzeTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MinSalience < 0 || c.MinSalience > 1 {
		return ErrInvalidMinSalience
	}

	// At most one machine-readable output format at a time.
	formats := 0
	for _, enabled := range []bool{c.JSONReport, c.MarkdownReport, c.CSVReport} {
		if enabled {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}

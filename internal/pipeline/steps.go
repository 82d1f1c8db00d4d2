package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/seoscan/internal/crawler"
	"github.com/nao1215/seoscan/internal/entity"
	"github.com/nao1215/seoscan/internal/model"
)

// NewReportForSeed creates the scan report for a seed URL.
// The site name is the seed's domain; when no domain can be extracted the
// raw seed is used so the report is still identifiable in output and
// history.
func NewReportForSeed(seed string) *model.ScanReport {
	site, err := crawler.Domain(seed)
	if err != nil {
		site = seed
	}
	report := model.NewScanReport(site)
	report.SeedURL = crawler.Normalize(seed)
	return report
}

// CrawlStep runs the breadth-first crawl and stores the visited URLs in
// the report.
type CrawlStep struct {
	// spider performs the traversal.
	spider *crawler.Spider

	// seed is the URL the crawl starts from.
	seed string
}

// NewCrawlStep creates a CrawlStep for the given seed URL.
func NewCrawlStep(spider *crawler.Spider, seed string) *CrawlStep {
	return &CrawlStep{
		spider: spider,
		seed:   seed,
	}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do crawls the site and records the visited URLs. Cancellation keeps the
// partial URL list and marks the report as timed out.
func (s *CrawlStep) Do(ctx context.Context, report *model.ScanReport) error {
	urls, err := s.spider.Crawl(ctx, s.seed)
	report.CrawledURLs = urls

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			report.TimedOut = true
		}
		return err
	}
	return nil
}

// AnalyzeStep extracts entities from every crawled page.
// Pages are re-fetched with a more generous timeout than the crawl used,
// reduced to readable text, and sent to the extraction service.
//
// Design decision: Per-page failures are logged and skipped rather than
// failing the step. One unreachable page or one API hiccup should not
// discard the entities already collected from the rest of the site.
type AnalyzeStep struct {
	// fetcher retrieves page content for analysis.
	fetcher *crawler.Fetcher

	// extractor turns page text into entities.
	extractor entity.Extractor

	// logger records per-page analysis failures.
	logger *slog.Logger
}

// NewAnalyzeStep creates an AnalyzeStep.
// A nil logger falls back to slog.Default().
func NewAnalyzeStep(fetcher *crawler.Fetcher, extractor entity.Extractor, logger *slog.Logger) *AnalyzeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStep{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return "analyze"
}

// Do analyzes each crawled URL and appends the extracted entities to the
// report.
func (s *AnalyzeStep) Do(ctx context.Context, report *model.ScanReport) error {
	for _, pageURL := range report.CrawledURLs {
		select {
		case <-ctx.Done():
			report.TimedOut = true
			return ctx.Err()
		default:
		}

		body, ok := s.fetcher.Fetch(ctx, pageURL)
		if !ok {
			s.logger.Debug("skipping unreadable page", "url", pageURL)
			continue
		}

		text := entity.ExtractText(body)
		if text == "" {
			s.logger.Debug("page has no readable text", "url", pageURL)
			continue
		}

		entities, err := s.extractor.Extract(ctx, pageURL, text)
		if err != nil {
			s.logger.Warn("entity extraction failed", "url", pageURL, "error", err)
			continue
		}

		report.AddEntities(entities)
	}

	return nil
}

// StatsStep computes aggregate statistics over the collected entities.
type StatsStep struct{}

// NewStatsStep creates a StatsStep.
func NewStatsStep() *StatsStep {
	return &StatsStep{}
}

// Name returns the step name.
func (s *StatsStep) Name() string {
	return "stats"
}

// Do replaces the report's statistics with freshly computed values.
func (s *StatsStep) Do(_ context.Context, report *model.ScanReport) error {
	report.Stats = model.NewStatistics(report.Entities)
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/crawler"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/entity"
	"github.com/nao1215/seoscan/internal/log"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/pipeline"
	"github.com/nao1215/seoscan/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl a website and extract the entities it talks about",
		Long: `Crawl performs a bounded breadth-first crawl of a website, staying
within the seed's domain, and analyzes the crawled pages for named
entities (people, organizations, locations, topics).

Entity extraction uses the Google Cloud Natural Language API and needs an
API key, passed via --api-key or the GOOGLE_API_KEY environment variable.
Use --no-analyze to crawl without extraction.

Examples:
  # Scan a single site (scheme defaults to https)
  seoscan crawl example.com

  # Scan several sites concurrently
  seoscan crawl -b 4 example.com other.example.org

  # Crawl more pages, deeper
  seoscan crawl -p 30 -d 3 https://example.com

  # Write a Markdown report to a file
  seoscan crawl --markdown -o report.md example.com

  # Export the raw entity rows as CSV
  seoscan crawl --csv -o entities.csv example.com

Configuration file (.seoscan) example:
  defaults:
    maxPages: 20
  sites:
    example.com:
      depth: 3
      minSalience: 0.05`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per site")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link distance from the seed (0 crawls only the seed page)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Per-page timeout while crawling")

	// Entity extraction flags
	cmd.Flags().String("api-key", "",
		"Google Cloud Natural Language API key (default: GOOGLE_API_KEY environment variable)")
	cmd.Flags().Float64("min-salience", config.DefaultMinSalience,
		"Drop entities scoring below this salience threshold (0-1)")
	cmd.Flags().Bool("no-analyze", false,
		"Skip entity extraction; report crawled URLs only")

	// Output filtering flags
	cmd.Flags().StringSlice("category", nil,
		"Only report entities in these categories (e.g., PERSON,ORGANIZATION)")
	cmd.Flags().String("query", "",
		"Only report entities whose name contains this text")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent site scans when multiple seeds are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .seoscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --csv)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --csv)")
	cmd.Flags().BoolP("csv", "C", false,
		"Output entity rows as CSV (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Entity extraction is the default; make a missing key an upfront
	// error instead of a failed analyze step per page.
	if !cfg.NoAnalyze && cfg.APIKey == "" {
		return fmt.Errorf("no API key provided: set --api-key or GOOGLE_API_KEY, or pass --no-analyze to crawl without extraction")
	}

	// Set up structured logging with secret masking
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.APIKey, err = cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
	}

	cfg.MinSalience, err = cmd.Flags().GetFloat64("min-salience")
	if err != nil {
		return nil, err
	}

	cfg.NoAnalyze, err = cmd.Flags().GetBool("no-analyze")
	if err != nil {
		return nil, err
	}

	cfg.FilterCategories, err = cmd.Flags().GetStringSlice("category")
	if err != nil {
		return nil, err
	}

	cfg.FilterQuery, err = cmd.Flags().GetString("query")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the seed URLs
	cfg.Seeds = args

	return cfg, nil
}

// runCrawl executes the scan for all seeds.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"seeds", cfg.Seeds,
		"max_pages", cfg.MaxPages,
		"max_depth", cfg.MaxDepth,
		"batch_size", cfg.BatchSize,
		"analyze", !cfg.NoAnalyze,
	)

	// Open database connection if saving is enabled
	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use batch processor for parallel scanning if multiple seeds
	if len(cfg.Seeds) > 1 && cfg.BatchSize > 1 {
		return runBatchCrawl(ctx, cfg, db, logger)
	}

	return runSequentialCrawl(ctx, cfg, db, logger)
}

// runSequentialCrawl scans seeds one at a time with live progress output.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, db *database.CrawlDB, logger *slog.Logger) error {
	for _, seed := range cfg.Seeds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		progress := crawler.ProgressFunc(func(message string) {
			fmt.Println(message)
		})
		p := createPipelineForSeed(cfg, seed, logger, progress)

		scanReport := pipeline.NewReportForSeed(seed)

		fmt.Printf("Scanning %s...\n", scanReport.Site)
		startTime := time.Now()

		if err := p.Execute(ctx, scanReport); err != nil {
			logger.Error("scan failed", "site", scanReport.Site, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", scanReport.Site, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "site", scanReport.Site, "error", err)
		}

		if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "site", scanReport.Site, "error", err)
		}
	}

	return nil
}

// runBatchCrawl scans multiple seeds concurrently using BatchProcessor.
// Progress output is suppressed in batch mode because interleaved per-page
// lines from concurrent scans are unreadable.
func runBatchCrawl(ctx context.Context, cfg *config.Config, db *database.CrawlDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d sites (concurrency: %d)...\n\n",
		len(cfg.Seeds), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(seed string) *pipeline.Pipeline {
			return createPipelineForSeed(cfg, seed, logger, nil)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.Seeds)

	for i, scanReport := range reports {
		if scanReport == nil {
			continue
		}

		fmt.Printf("[%d/%d] Scan completed: %s\n", i+1, len(reports), scanReport.Site)
		if scanReport.Error != nil {
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", scanReport.Site, scanReport.Error)
			continue
		}

		if reportErr := outputReport(cfg, scanReport); reportErr != nil {
			logger.Error("report failed", "site", scanReport.Site, "error", reportErr)
		}

		if saveErr := saveScanReport(ctx, db, scanReport, logger); saveErr != nil {
			logger.Error("failed to save scan report", "site", scanReport.Site, "error", saveErr)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// createPipelineForSeed builds the crawl/analyze/stats pipeline for one
// seed, applying site-specific configuration from the config file.
func createPipelineForSeed(cfg *config.Config, seed string, logger *slog.Logger, progress crawler.ProgressSink) *pipeline.Pipeline {
	merged := cfg
	if cfg.SiteConfigs != nil {
		if domain, err := crawler.Domain(seed); err == nil {
			merged = cfg.SiteConfigs.GetSiteConfig(domain).ApplyTo(cfg)
		}
	}

	crawlFetcher := crawler.NewFetcher(
		crawler.WithTimeout(merged.FetchTimeout),
		crawler.WithUserAgent(merged.UserAgent),
		crawler.WithMaxBodySize(merged.MaxBodySize),
	)

	spiderOpts := []crawler.SpiderOption{
		crawler.WithMaxPages(merged.MaxPages),
		crawler.WithMaxDepth(merged.MaxDepth),
		crawler.WithLogger(logger),
	}
	if progress != nil {
		spiderOpts = append(spiderOpts, crawler.WithProgressSink(progress))
	}
	spider := crawler.NewSpider(crawlFetcher, spiderOpts...)

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddStep(pipeline.NewCrawlStep(spider, seed))

	if !cfg.NoAnalyze {
		// Analysis re-fetches pages with a more generous timeout than
		// the crawl used.
		analyzeFetcher := crawler.NewFetcher(
			crawler.WithTimeout(merged.AnalyzeTimeout),
			crawler.WithUserAgent(merged.UserAgent),
			crawler.WithMaxBodySize(merged.MaxBodySize),
		)
		extractor := entity.NewClient(cfg.APIKey,
			entity.WithMinSalience(merged.MinSalience),
		)
		p.AddStep(pipeline.NewAnalyzeStep(analyzeFetcher, extractor, logger))
	}

	p.AddStep(pipeline.NewStatsStep())

	return p
}

// outputReport outputs the scan report in the requested format.
// Category and name filters apply to the output only; the database keeps
// the unfiltered result.
func outputReport(cfg *config.Config, scanReport *model.ScanReport) error {
	if len(cfg.FilterCategories) > 0 || cfg.FilterQuery != "" {
		filter := model.Filter{
			Categories: cfg.FilterCategories,
			Query:      cfg.FilterQuery,
		}
		filtered := *scanReport
		filtered.Entities = filter.Apply(scanReport.Entities)
		filtered.Stats = model.NewStatistics(filtered.Entities)
		scanReport = &filtered
	}

	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.CSVReport:
		writer = report.NewCSVWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(scanReport)
	return err
}

// saveScanReport saves the crawled pages, entities, and the full report to
// the database. If db is nil, this function is a no-op.
func saveScanReport(ctx context.Context, db *database.CrawlDB, scanReport *model.ScanReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	for _, pageURL := range scanReport.CrawledURLs {
		if err := db.InsertCrawledPage(ctx, scanReport.Site, pageURL); err != nil {
			return fmt.Errorf("failed to save crawled page: %w", err)
		}
	}

	if err := db.InsertEntities(ctx, scanReport.Site, scanReport.Entities); err != nil {
		return fmt.Errorf("failed to save entities: %w", err)
	}

	if err := db.SaveScanReport(ctx, scanReport); err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	logger.Info("scan report saved to database", "site", scanReport.Site)
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/seoscan/internal/config"
	"github.com/nao1215/seoscan/internal/crawler"
	"github.com/nao1215/seoscan/internal/database"
	"github.com/nao1215/seoscan/internal/model"
	"github.com/nao1215/seoscan/internal/report"
)

// NewHistoryCmd creates the history command.
// This command browses scan results stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [site]",
		Short: "Browse stored scan results",
		Long: `History lists the scan results stored in the database.

Every 'seoscan crawl' saves its report, so history shows how a site's
entity profile develops over time: which categories grow, which scans
found more entities, and when each scan ran.

Examples:
  # List scan history for a site
  seoscan history example.com

  # List all scanned sites in the database
  seoscan history --list-sites

  # Show a full stored report by ID (use the listing to find IDs)
  seoscan history --show-id 5 example.com

  # Show the most recent stored report for a site
  seoscan history --latest example.com

  # Output in JSON format
  seoscan history --json example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List scan history for the site (the default when a site is given)")
	cmd.Flags().BoolP("list-sites", "L", false,
		"List all scanned sites in the database")
	cmd.Flags().Int64P("show-id", "i", 0,
		"Show the full stored report with this ID")
	cmd.Flags().Bool("latest", false,
		"Show the most recent stored report for the site")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("list-sites")
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	showID, err := cmd.Flags().GetInt64("show-id")
	if err != nil {
		return err
	}

	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database so bad invocations
	// fail fast without touching the lock.
	var site string
	if !listSites && showID == 0 {
		if len(args) == 0 {
			return errors.New("site is required (use --list-sites to see available sites)")
		}
		site, err = crawler.Domain(args[0])
		if err != nil {
			return fmt.Errorf("invalid site: %w", err)
		}
	}

	// History only reads; a missing database means nothing was ever
	// scanned, which gets its own message.
	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return errors.New("no scan database found; use 'seoscan crawl <url>' to scan a site first")
	}
	defer db.Close()

	ctx := context.Background()

	if listSites {
		return listScannedSites(ctx, db, jsonOutput)
	}

	if showID != 0 {
		return showStoredReport(ctx, db, showID, jsonOutput)
	}

	if latest {
		return showLatestReport(ctx, db, site, jsonOutput)
	}

	// --list and the bare form both produce the listing.
	return listScanHistory(ctx, db, site, jsonOutput)
}

// listScannedSites lists all sites that have scan records in the database.
func listScannedSites(ctx context.Context, db *database.CrawlDB, jsonOutput bool) error {
	sites, err := db.ListScannedSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sites)
	}

	if len(sites) == 0 {
		fmt.Println("No scanned sites found in the database.")
		fmt.Println("\nUse 'seoscan crawl <url>' to scan a site.")
		return nil
	}

	fmt.Printf("Scanned sites (%d):\n\n", len(sites))
	for _, site := range sites {
		fmt.Printf("  • %s\n", site)
	}
	fmt.Println("\nUse 'seoscan history <site>' to see scan history for a site.")

	return nil
}

// listScanHistory lists all scan records for a specific site.
func listScanHistory(ctx context.Context, db *database.CrawlDB, site string, jsonOutput bool) error {
	metadata, err := db.GetScanHistoryWithMetadata(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(metadata)
	}

	if len(metadata) == 0 {
		fmt.Printf("No scan history found for %s\n", site)
		fmt.Println("\nUse 'seoscan crawl' to scan this site.")
		return nil
	}

	fmt.Printf("Scan history for %s (%d scans):\n\n", site, len(metadata))
	fmt.Printf("  %-6s  %-20s  %s\n", "ID", "Date", "Entities by Category")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range metadata {
		fmt.Printf("  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatEntitySummary(meta.EntitySummary),
		)
	}

	fmt.Println("\nUse 'seoscan history --show-id <id> <site>' to see a full report.")

	return nil
}

// formatEntitySummary formats the per-category entity counts into a
// human-readable string.
func formatEntitySummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "No entities"
	}

	categories := make([]string, 0, len(summary))
	for category := range summary {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	parts := make([]string, 0, len(categories))
	for _, category := range categories {
		parts = append(parts, fmt.Sprintf("%s:%d", category, summary[category]))
	}
	return strings.Join(parts, " ")
}

// showLatestReport prints the most recent stored report for a site.
func showLatestReport(ctx context.Context, db *database.CrawlDB, site string, jsonOutput bool) error {
	scanReport, err := db.GetLatestScanReport(ctx, site)
	if err != nil {
		return fmt.Errorf("failed to get latest report: %w", err)
	}
	if scanReport == nil {
		return fmt.Errorf("no scan history found for %s", site)
	}

	return printStoredReport(scanReport, jsonOutput)
}

// showStoredReport prints the full stored report with the given ID.
func showStoredReport(ctx context.Context, db *database.CrawlDB, id int64, jsonOutput bool) error {
	scanReport, err := db.GetScanReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get scan with ID %d: %w", id, err)
	}
	if scanReport == nil {
		return fmt.Errorf("scan with ID %d not found", id)
	}

	return printStoredReport(scanReport, jsonOutput)
}

// printStoredReport writes a stored report to stdout in the requested
// format.
func printStoredReport(scanReport *model.ScanReport, jsonOutput bool) error {
	if jsonOutput {
		writer := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
		_, err := writer.Write(scanReport)
		return err
	}

	writer := report.NewSimpleWriter(os.Stdout, report.WithVerbose(true))
	_, err := writer.Write(scanReport)
	return err
}

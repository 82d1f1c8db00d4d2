package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/seoscan/internal/model"
)

// topEntityCount is how many entities the text report lists.
const topEntityCount = 10

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entities are shown.
	showEmpty bool

	// verbose adds the full crawled URL list to the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with the crawled URL list.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	report.EnsureStats()

	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeStatistics(&sb, report)
	w.writeTopEntities(&sb, report)
	w.writeCategories(&sb, report)
	if w.verbose {
		w.writeCrawledURLs(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          SEOSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:           %s\n", report.Site))
	if report.SeedURL != "" {
		sb.WriteString(fmt.Sprintf("Seed URL:       %s\n", report.SeedURL))
	}
	sb.WriteString(fmt.Sprintf("Scan Date:      %s\n", report.DateScanned.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Pages Crawled:  %d\n", report.PagesCrawled()))
	sb.WriteString(fmt.Sprintf("Pages Analyzed: %d\n", report.PagesAnalyzed()))

	if report.TimedOut {
		sb.WriteString("Status:         TIMED OUT (partial results)\n")
	} else if report.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", report.ErrorMessage))
	} else {
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeStatistics writes the entity statistics section.
func (w *SimpleWriter) writeStatistics(sb *strings.Builder, report *model.ScanReport) {
	stats := report.Stats

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ENTITY STATISTICS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Total entities:  %d\n", stats.TotalEntities))
	sb.WriteString(fmt.Sprintf("  Unique entities: %d\n", stats.UniqueEntities))
	sb.WriteString(fmt.Sprintf("  Categories:      %d\n", stats.Categories))
	if stats.TotalEntities > 0 {
		sb.WriteString(fmt.Sprintf("  Avg salience:    %.4f\n", stats.AvgSalience))
		sb.WriteString(fmt.Sprintf("  Max salience:    %.4f\n", stats.MaxSalience))
		sb.WriteString(fmt.Sprintf("  Top entity:      %s\n", stats.TopEntity))
	}
	sb.WriteString("\n")
}

// writeTopEntities writes the highest-salience entities.
func (w *SimpleWriter) writeTopEntities(sb *strings.Builder, report *model.ScanReport) {
	if len(report.Entities) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("TOP %d ENTITIES\n", topEntityCount))
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	top := model.TopBySalience(report.Entities, topEntityCount)
	if len(top) == 0 {
		sb.WriteString("  No entities extracted\n")
	}
	for i, e := range top {
		sb.WriteString(fmt.Sprintf("  %2d. %-30s %-15s %.4f\n", i+1, e.Name, e.Category, e.Salience))
	}
	sb.WriteString("\n")
}

// writeCategories writes the category distribution.
func (w *SimpleWriter) writeCategories(sb *strings.Builder, report *model.ScanReport) {
	counts := model.CategoryCounts(report.Entities)
	if len(counts) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CATEGORY DISTRIBUTION\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(counts) == 0 {
		sb.WriteString("  No categories\n")
	}
	for _, category := range sortedKeys(counts) {
		sb.WriteString(fmt.Sprintf("  %-20s %d\n", category, counts[category]))
	}
	sb.WriteString("\n")
}

// writeCrawledURLs writes the full list of crawled URLs in visit order.
func (w *SimpleWriter) writeCrawledURLs(sb *strings.Builder, report *model.ScanReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWLED URLS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, u := range report.CrawledURLs {
		sb.WriteString(fmt.Sprintf("  [+] %s\n", u))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by seoscan\n")
	sb.WriteString("https://github.com/nao1215/seoscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

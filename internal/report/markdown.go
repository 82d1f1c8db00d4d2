package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/seoscan/internal/model"
)

// markdownTopEntityCount is how many entities the Markdown report lists.
const markdownTopEntityCount = 15

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. Mermaid chart embedding for the category distribution
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	report.EnsureStats()

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStatistics(md, report)
	w.writeTopEntities(md, report)
	w.writeCategoryChart(md, report)
	w.writePageTable(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScanReport) {
	md.H1("SEO Entity Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.Site + "`"},
			{"Seed URL", report.SeedURL},
			{"Scan Date", report.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Pages Crawled", strconv.Itoa(report.PagesCrawled())},
			{"Pages Analyzed", strconv.Itoa(report.PagesAnalyzed())},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.ScanReport) string {
	if report.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeStatistics writes the entity statistics table.
func (w *MarkdownWriter) writeStatistics(md *markdown.Markdown, report *model.ScanReport) {
	stats := report.Stats

	md.H2("Entity Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Entities", strconv.Itoa(stats.TotalEntities)},
			{"Unique Entities", strconv.Itoa(stats.UniqueEntities)},
			{"Categories", strconv.Itoa(stats.Categories)},
			{"Avg Salience", fmt.Sprintf("%.4f", stats.AvgSalience)},
			{"Max Salience", fmt.Sprintf("%.4f", stats.MaxSalience)},
			{"Top Entity", stats.TopEntity},
		},
	})
	md.PlainText("")
}

// writeTopEntities writes the highest-salience entities as a table.
func (w *MarkdownWriter) writeTopEntities(md *markdown.Markdown, report *model.ScanReport) {
	top := model.TopBySalience(report.Entities, markdownTopEntityCount)
	if len(top) == 0 {
		return
	}

	md.H2(fmt.Sprintf("Top %d Entities", markdownTopEntityCount))
	md.PlainText("")

	rows := make([][]string, 0, len(top))
	for i, e := range top {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Name,
			e.Category,
			fmt.Sprintf("%.4f", e.Salience),
			e.Source,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Entity", "Category", "Salience", "Source"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCategoryChart writes a mermaid pie chart of the category
// distribution.
func (w *MarkdownWriter) writeCategoryChart(md *markdown.Markdown, report *model.ScanReport) {
	counts := model.CategoryCounts(report.Entities)
	if len(counts) == 0 {
		return
	}

	md.H2("Category Distribution")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Entity Category Distribution"),
		piechart.WithShowData(true),
	)

	for _, category := range sortedKeys(counts) {
		chart.LabelAndIntValue(category, uint64(counts[category]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePageTable writes the number of entities found per crawled page.
func (w *MarkdownWriter) writePageTable(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.CrawledURLs) == 0 {
		return
	}

	md.H2("Entities per Page")
	md.PlainText("")

	pageCounts := model.PageCounts(report.Entities)
	rows := make([][]string, 0, len(report.CrawledURLs))
	for _, u := range report.CrawledURLs {
		rows = append(rows, []string{u, strconv.Itoa(pageCounts[u])})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Page", "Entities"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("Report generated by [seoscan](https://github.com/nao1215/seoscan)")
}

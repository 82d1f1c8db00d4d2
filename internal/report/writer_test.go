package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/seoscan/internal/model"
)

func sampleReport() *model.ScanReport {
	report := model.NewScanReport("example.com")
	report.SeedURL = "https://example.com"
	report.DateScanned = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	report.CrawledURLs = []string{
		"https://example.com",
		"https://example.com/about",
	}
	report.AddEntities([]model.Entity{
		{Source: "https://example.com", Name: "Example Corp", Salience: 0.6123, Category: "ORGANIZATION"},
		{Source: "https://example.com/about", Name: "Berlin", Salience: 0.1, Category: "LOCATION"},
	})
	return report
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a complete report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"SEOSCAN REPORT",
			"example.com",
			"Pages Crawled:  2",
			"Example Corp",
			"ORGANIZATION",
			"Status:         Complete",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("verbose lists crawled URLs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "[+] https://example.com/about") {
			t.Errorf("expected crawled URL list in verbose output:\n%s", buf.String())
		}
	})

	t.Run("reports errors in the status line", func(t *testing.T) {
		t.Parallel()

		report := sampleReport()
		report.Error = errors.New("network unreachable")
		report.ErrorMessage = report.Error.Error()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - network unreachable") {
			t.Errorf("expected error status:\n%s", buf.String())
		}
	})

	t.Run("empty report shows empty sections when requested", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))

		if _, err := w.Write(model.NewScanReport("empty.example")); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "No entities extracted") {
			t.Errorf("expected empty-section marker:\n%s", buf.String())
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("round trips through JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		var got model.ScanReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Site != "example.com" {
			t.Errorf("expected site example.com, got %q", got.Site)
		}
		if got.Stats == nil {
			t.Error("expected stats to be included")
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"site\"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})

	t.Run("version envelope", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("1.2.3"))

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		var envelope struct {
			Version string            `json:"version"`
			Report  *model.ScanReport `json:"report"`
		}
		if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if envelope.Version != "1.2.3" {
			t.Errorf("expected version 1.2.3, got %q", envelope.Version)
		}
		if envelope.Report == nil || envelope.Report.Site != "example.com" {
			t.Error("expected wrapped report")
		}
	})
}

func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	wantHeader := []string{"source", "name", "salience", "category"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header column %d: expected %q, got %q", i, col, records[0][i])
		}
	}
	if records[1][1] != "Example Corp" || records[1][2] != "0.6123" {
		t.Errorf("unexpected first row: %v", records[1])
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# SEO Entity Report",
		"## Entity Statistics",
		"Example Corp",
		"```mermaid",
		"## Entities per Page",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in markdown output:\n%s", want, out)
		}
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

	if _, err := mw.Write(sampleReport()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if a.Len() == 0 {
		t.Error("expected simple output")
	}
	if b.Len() == 0 {
		t.Error("expected JSON output")
	}
}

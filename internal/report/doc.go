// Package report renders scan results in the supported output formats:
// human-readable text, JSON, CSV, and Markdown.
//
// All formats implement the Writer interface, and MultiWriter fans one
// report out to several destinations (typically terminal plus file).
// Writers call EnsureStats on the report so that statistics are always
// present in the output, regardless of which pipeline steps ran.
package report

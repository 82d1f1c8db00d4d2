// Package database persists scan results to SQLite for historical
// comparison.
//
// Three tables are kept: pages (crawled URLs per site), entities (the
// extracted entities per site and source page), and scan_reports (the
// complete report serialized as JSON, plus a small category summary for
// cheap history listings). The database lives in the XDG data directory
// and uses modernc.org/sqlite, so no cgo is required.
package database

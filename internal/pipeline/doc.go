// Package pipeline orchestrates a scan as a sequence of steps: crawl the
// site, analyze the crawled pages for entities, and compute statistics.
//
// Each step implements the Step interface and mutates a shared
// model.ScanReport. BatchProcessor runs one pipeline per seed URL
// concurrently with a bounded limit for multi-site scans.
package pipeline

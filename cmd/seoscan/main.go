// Package main provides the entry point for the seoscan CLI.
//
// seoscan crawls a website within its own domain and extracts the named
// entities its pages talk about, producing an SEO-oriented entity report.
//
// Usage:
//
//	seoscan crawl https://example.com
//	seoscan crawl --markdown -o report.md example.com
//
// See --help for all available options.
package main

// main is the entry point for seoscan.
func main() {
	Execute()
}

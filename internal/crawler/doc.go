// Package crawler implements the bounded breadth-first web crawler at the
// heart of seoscan.
//
// The package is built from four cooperating pieces:
//
//   - Normalize and Domain canonicalize URLs so that deduplication and
//     same-domain checks operate on a single representation.
//   - Fetcher retrieves pages over HTTP with a bounded timeout and treats
//     every failure as an absent page rather than an error.
//   - ExtractLinks parses HTML and returns the set of same-domain links.
//   - Spider drives the breadth-first traversal with hard page and depth
//     ceilings, reporting progress through a ProgressSink.
//
// All crawl state lives inside a single Crawl invocation. A Spider can be
// reused across crawls without carrying anything over.
package crawler

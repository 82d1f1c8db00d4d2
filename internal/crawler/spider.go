package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Spider crawls a single domain breadth-first and returns the URLs it
// visited, in visit order.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// fetcher retrieves pages. Failures are silent: a page that cannot
	// be fetched still counts as visited but contributes no links.
	fetcher *Fetcher

	// maxDepth limits how far from the seed the crawl reaches.
	// 0 means only the seed page, 1 adds its links, and so on.
	maxDepth int

	// maxPages is a hard ceiling on the number of pages visited.
	maxPages int

	// sink receives progress messages. May be nil.
	sink ProgressSink

	// logger records crawl-level events such as a rejected seed.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the seed page, 1 = seed page plus linked pages, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithMaxPages sets the maximum number of pages to visit.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithProgressSink sets the sink progress messages are published to.
func WithProgressSink(sink ProgressSink) SpiderOption {
	return func(s *Spider) {
		s.sink = sink
	}
}

// WithLogger sets the logger for crawl-level events.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider that visits at most 10 pages to a depth of 2.
// A nil fetcher is replaced with the default Fetcher.
func NewSpider(fetcher *Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		maxDepth: 2,
		maxPages: 10,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.fetcher == nil {
		s.fetcher = NewFetcher()
	}

	return s
}

// Crawl performs a breadth-first traversal starting at seed and returns
// the visited URLs in visit order. The crawl never leaves the seed's
// domain and stops once the page or depth ceiling is reached.
//
// A seed with no usable domain yields an empty result and a nil error;
// the defect is logged, not raised. Cancellation through ctx returns the
// pages visited so far together with ctx.Err().
func (s *Spider) Crawl(ctx context.Context, seed string) ([]string, error) {
	visited := make([]string, 0, s.maxPages)

	start := Normalize(seed)
	domain, err := Domain(start)
	if err != nil {
		s.logger.Warn("seed URL has no usable domain, skipping crawl", "url", seed)
		return visited, nil
	}

	f := newFrontier()
	f.enqueue(start, 0)

	for len(visited) < s.maxPages {
		select {
		case <-ctx.Done():
			return visited, ctx.Err()
		default:
		}

		item, ok := f.dequeue()
		if !ok {
			break
		}
		if f.isVisited(item.url) {
			continue
		}
		if item.depth > s.maxDepth {
			continue
		}
		// Trap guard: a URL embedding another absolute URL ("http"
		// appearing more than once) is almost always a redirect loop
		// or a malformed relative resolution. Checked again below
		// before enqueueing so traps never occupy queue space.
		if strings.Count(item.url, "http") > 1 {
			continue
		}

		f.markVisited(item.url)
		visited = append(visited, item.url)
		s.publish(fmt.Sprintf("Crawling: %s (Depth %d)", item.url, item.depth))

		body, ok := s.fetcher.Fetch(ctx, item.url)
		if !ok {
			// Failed pages count against maxPages but contribute
			// no children.
			continue
		}

		if item.depth >= s.maxDepth {
			continue
		}

		links := ExtractLinks(body, item.url, domain)

		// Map iteration order is not stable; sorting keeps the visit
		// sequence reproducible for identical fetch results.
		candidates := make([]string, 0, len(links))
		for link := range links {
			candidates = append(candidates, link)
		}
		sort.Strings(candidates)

		for _, link := range candidates {
			if strings.Count(link, "http") > 1 {
				continue
			}
			f.enqueue(link, item.depth+1)
		}
	}

	return visited, nil
}

// publish delivers a progress message when a sink is configured.
func (s *Spider) publish(message string) {
	if s.sink != nil {
		s.sink.Publish(message)
	}
}

package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestSite serves the given path-to-HTML map. Unknown paths return 404.
func newTestSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestSpiderCrawlBreadthFirst(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{
		"/":  `<a href="/a">a</a><a href="/b">b</a>`,
		"/a": `<a href="/c">c</a>`,
		"/b": `<a href="/c">c</a>`,
		"/c": `no links here`,
	})
	base := Normalize(server.URL)

	spider := NewSpider(NewFetcher(), WithMaxPages(10), WithMaxDepth(2))
	visited, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	want := []string{base, base + "/a", base + "/b", base + "/c"}
	if len(visited) != len(want) {
		t.Fatalf("expected %d pages, got %d: %v", len(want), len(visited), visited)
	}
	for i, w := range want {
		if visited[i] != w {
			t.Errorf("position %d: expected %q, got %q", i, w, visited[i])
		}
	}
}

func TestSpiderCrawlIsDeterministic(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{
		"/":  `<a href="/c">c</a><a href="/a">a</a><a href="/b">b</a>`,
		"/a": `<a href="/d">d</a>`,
		"/b": ``,
		"/c": ``,
		"/d": ``,
	})

	spider := NewSpider(NewFetcher(), WithMaxPages(10), WithMaxDepth(2))

	first, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("first crawl failed: %v", err)
	}
	second, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("second crawl failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("crawls differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestSpiderRespectsPageLimit(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{
		"/": `<a href="/p1">1</a><a href="/p2">2</a><a href="/p3">3</a>
		      <a href="/p4">4</a><a href="/p5">5</a>`,
		"/p1": ``, "/p2": ``, "/p3": ``, "/p4": ``, "/p5": ``,
	})

	spider := NewSpider(NewFetcher(), WithMaxPages(3), WithMaxDepth(2))
	visited, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if len(visited) != 3 {
		t.Errorf("expected exactly 3 pages, got %d: %v", len(visited), visited)
	}
}

func TestSpiderRespectsDepthLimit(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{
		"/":   `<a href="/l1">l1</a>`,
		"/l1": `<a href="/l2">l2</a>`,
		"/l2": `<a href="/l3">l3</a>`,
		"/l3": ``,
	})
	base := Normalize(server.URL)

	spider := NewSpider(NewFetcher(), WithMaxPages(10), WithMaxDepth(1))
	visited, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	want := []string{base, base + "/l1"}
	if len(visited) != len(want) {
		t.Fatalf("expected %d pages at depth 1, got %d: %v", len(want), len(visited), visited)
	}
}

func TestSpiderStaysOnSeedDomain(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{
		"/":   `<a href="/in">in</a><a href="http://external.invalid/out">out</a>`,
		"/in": ``,
	})
	base := Normalize(server.URL)

	spider := NewSpider(NewFetcher(), WithMaxPages(10), WithMaxDepth(2))
	visited, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	for _, u := range visited {
		if !strings.HasPrefix(u, base) {
			t.Errorf("crawl left the seed domain: %q", u)
		}
	}
	if len(visited) != 2 {
		t.Errorf("expected 2 pages, got %d: %v", len(visited), visited)
	}
}

func TestSpiderVisitsEachPageOnce(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{
		"/":  `<a href="/a">a</a><a href="/">self</a>`,
		"/a": `<a href="/">back</a><a href="/a">self</a>`,
	})

	spider := NewSpider(NewFetcher(), WithMaxPages(10), WithMaxDepth(3))
	visited, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	seen := make(map[string]int)
	for _, u := range visited {
		seen[u]++
	}
	for u, n := range seen {
		if n > 1 {
			t.Errorf("page %q visited %d times", u, n)
		}
	}
}

func TestSpiderCountsFailedFetches(t *testing.T) {
	t.Parallel()

	// /missing is not served; it still consumes a page slot.
	server := newTestSite(t, map[string]string{
		"/":      `<a href="/alive">alive</a><a href="/missing">missing</a>`,
		"/alive": ``,
	})
	base := Normalize(server.URL)

	spider := NewSpider(NewFetcher(), WithMaxPages(10), WithMaxDepth(2))
	visited, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	if len(visited) != 3 {
		t.Fatalf("expected 3 pages including the failed one, got %d: %v", len(visited), visited)
	}
	found := false
	for _, u := range visited {
		if u == base+"/missing" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected failed page in visit list, got %v", visited)
	}
}

func TestSpiderSkipsTrapURLs(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{
		"/":   `<a href="/ok">ok</a><a href="/redirect/http://evil.invalid/x">trap</a>`,
		"/ok": ``,
	})
	base := Normalize(server.URL)

	spider := NewSpider(NewFetcher(), WithMaxPages(10), WithMaxDepth(2))
	visited, err := spider.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	want := []string{base, base + "/ok"}
	if len(visited) != len(want) {
		t.Fatalf("expected trap URL to be skipped, got %v", visited)
	}
	for _, u := range visited {
		if strings.Count(u, "http") > 1 {
			t.Errorf("trap URL was visited: %q", u)
		}
	}
}

func TestSpiderBadSeed(t *testing.T) {
	t.Parallel()

	spider := NewSpider(NewFetcher())
	visited, err := spider.Crawl(context.Background(), "")
	if err != nil {
		t.Fatalf("bad seed should not produce an error, got %v", err)
	}
	if len(visited) != 0 {
		t.Errorf("bad seed should produce an empty result, got %v", visited)
	}
}

func TestSpiderContextCancellation(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{"/": ``})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spider := NewSpider(NewFetcher())
	visited, err := spider.Crawl(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(visited) != 0 {
		t.Errorf("expected no pages after immediate cancellation, got %v", visited)
	}
}

func TestSpiderPublishesProgress(t *testing.T) {
	t.Parallel()

	server := newTestSite(t, map[string]string{
		"/":  `<a href="/a">a</a>`,
		"/a": ``,
	})
	base := Normalize(server.URL)

	var messages []string
	sink := ProgressFunc(func(msg string) {
		messages = append(messages, msg)
	})

	spider := NewSpider(NewFetcher(), WithMaxPages(10), WithMaxDepth(2), WithProgressSink(sink))
	if _, err := spider.Crawl(context.Background(), server.URL); err != nil {
		t.Fatalf("crawl failed: %v", err)
	}

	want := []string{
		"Crawling: " + base + " (Depth 0)",
		"Crawling: " + base + "/a (Depth 1)",
	}
	if len(messages) != len(want) {
		t.Fatalf("expected %d progress messages, got %d: %v", len(want), len(messages), messages)
	}
	for i, w := range want {
		if messages[i] != w {
			t.Errorf("message %d: expected %q, got %q", i, w, messages[i])
		}
	}
}

func TestChannelSinkDoesNotBlock(t *testing.T) {
	t.Parallel()

	sink := make(ChannelSink, 1)
	sink.Publish("first")
	sink.Publish("second") // dropped, channel is full

	if got := <-sink; got != "first" {
		t.Errorf("expected first message, got %q", got)
	}
	select {
	case msg := <-sink:
		t.Errorf("unexpected second message %q", msg)
	default:
	}
}

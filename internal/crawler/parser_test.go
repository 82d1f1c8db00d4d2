package crawler

import "testing"

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	page := []byte(`<html><body>
		<a href="/about">About</a>
		<a href="contact">Contact</a>
		<a href="https://example.com/pricing">Pricing</a>
		<a href="https://example.com/about#team">Team</a>
		<a href="https://sub.example.com/blog">Subdomain</a>
		<a href="https://other.com/page">External</a>
		<a href="mailto:info@example.com">Mail</a>
		<a href="tel:+123456789">Call</a>
		<a href="javascript:void(0)">JS</a>
		<a href="data:text/plain,hello">Data</a>
		<a href="#top">Top</a>
		<a href="/about">About again</a>
		<link href="/style.css" rel="stylesheet">
	</body></html>`)

	links := ExtractLinks(page, "https://example.com/index", "example.com")

	want := map[string]struct{}{
		"https://example.com/about":   {},
		"https://example.com/contact": {},
		"https://example.com/pricing": {},
	}

	if len(links) != len(want) {
		t.Errorf("expected %d links, got %d: %v", len(want), len(links), links)
	}
	for link := range want {
		if _, ok := links[link]; !ok {
			t.Errorf("expected link %q in result", link)
		}
	}
	for link := range links {
		if _, ok := want[link]; !ok {
			t.Errorf("unexpected link %q in result", link)
		}
	}
}

func TestExtractLinksRelativeResolution(t *testing.T) {
	t.Parallel()

	page := []byte(`<a href="../up">Up</a><a href="sibling">Sibling</a>`)

	links := ExtractLinks(page, "https://example.com/docs/guide/intro", "example.com")

	if _, ok := links["https://example.com/docs/up"]; !ok {
		t.Errorf("expected parent-relative link resolved, got %v", links)
	}
	if _, ok := links["https://example.com/docs/guide/sibling"]; !ok {
		t.Errorf("expected sibling-relative link resolved, got %v", links)
	}
}

func TestExtractLinksFragmentsAreStripped(t *testing.T) {
	t.Parallel()

	page := []byte(`<a href="/about#team">Team</a><a href="/about#jobs">Jobs</a>`)

	links := ExtractLinks(page, "https://example.com", "example.com")

	if len(links) != 1 {
		t.Fatalf("expected fragment variants to collapse to one link, got %v", links)
	}
	if _, ok := links["https://example.com/about"]; !ok {
		t.Errorf("expected fragment-free link, got %v", links)
	}
}

func TestExtractLinksMalformedHTML(t *testing.T) {
	t.Parallel()

	// html.Parse repairs broken markup; the anchor is still found.
	page := []byte(`<body><a href="/ok">ok<p>unclosed`)

	links := ExtractLinks(page, "https://example.com", "example.com")

	if _, ok := links["https://example.com/ok"]; !ok {
		t.Errorf("expected link from malformed HTML, got %v", links)
	}
}

func TestExtractLinksEmptyContent(t *testing.T) {
	t.Parallel()

	links := ExtractLinks(nil, "https://example.com", "example.com")
	if len(links) != 0 {
		t.Errorf("expected no links from empty content, got %v", links)
	}
}

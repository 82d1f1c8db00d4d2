package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNoDomain is returned by Domain when a URL has no usable host.
var ErrNoDomain = errors.New("URL has no host")

// Normalize canonicalizes a raw URL string so that two references to the
// same page compare equal.
//
// The rules are:
//  1. A missing scheme defaults to https ("example.com" becomes
//     "https://example.com").
//  2. Scheme and host are lowercased.
//  3. Doubled path separators collapse until none remain.
//  4. Query string and fragment are dropped.
//
// Design decision: Normalize is pure and never fails. Input that cannot be
// parsed at all is returned trimmed but otherwise untouched; Domain is the
// place where unusable URLs surface as errors.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	switch {
	case u.Scheme == "" && u.Host != "":
		// Protocol-relative URL ("//example.com/x"): the host parsed
		// fine, only the scheme is missing.
		u.Scheme = "https"
	case u.Scheme == "" || u.Host == "":
		// A scheme-less URL parses entirely into the path ("example.com"),
		// and a bare host:port parses the host as a scheme
		// ("example.com:8080"). Reparsing with an explicit scheme
		// recovers the host in both cases.
		reparsed, err := url.Parse("https://" + raw)
		if err != nil || reparsed.Host == "" {
			return raw
		}
		u = reparsed
	}

	// Collapse repeated separators until a fixed point so that
	// normalizing an already-normalized URL changes nothing.
	path := u.Path
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path
}

// Domain returns the host of the normalized URL.
// It fails only when no host can be extracted, which is the single
// condition under which a seed URL is considered unusable.
func Domain(raw string) (string, error) {
	u, err := url.Parse(Normalize(raw))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrNoDomain, raw)
	}
	return u.Host, nil
}

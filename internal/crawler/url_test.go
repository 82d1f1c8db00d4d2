package crawler

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "missing scheme defaults to https", in: "example.com", want: "https://example.com"},
		{name: "missing scheme with path", in: "example.com/about", want: "https://example.com/about"},
		{name: "missing scheme with port", in: "example.com:8080/a", want: "https://example.com:8080/a"},
		{name: "protocol relative", in: "//example.com/x", want: "https://example.com/x"},
		{name: "http scheme is kept", in: "http://example.com", want: "http://example.com"},
		{name: "host is lowercased", in: "https://Example.COM/About", want: "https://example.com/About"},
		{name: "doubled separators collapse", in: "https://example.com//a//b", want: "https://example.com/a/b"},
		{name: "many separators collapse", in: "https://example.com////a", want: "https://example.com/a"},
		{name: "query is dropped", in: "https://example.com/a?q=1", want: "https://example.com/a"},
		{name: "fragment is dropped", in: "https://example.com/a#section", want: "https://example.com/a"},
		{name: "surrounding whitespace is trimmed", in: "  https://example.com  ", want: "https://example.com"},
		{name: "trailing slash is kept", in: "https://example.com/a/", want: "https://example.com/a/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"example.com",
		"https://example.com//a//b?q=1#frag",
		"HTTP://Example.COM////x",
		"//example.com/x",
		"example.com:8080/a//b",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDomain(t *testing.T) {
	t.Parallel()

	t.Run("extracts the host", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			in   string
			want string
		}{
			{in: "https://example.com/about", want: "example.com"},
			{in: "example.com", want: "example.com"},
			{in: "https://Sub.Example.COM/x", want: "sub.example.com"},
			{in: "example.com:8080/a", want: "example.com:8080"},
		}

		for _, tt := range tests {
			got, err := Domain(tt.in)
			if err != nil {
				t.Errorf("Domain(%q) returned error: %v", tt.in, err)
				continue
			}
			if got != tt.want {
				t.Errorf("Domain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		}
	})

	t.Run("fails when no host exists", func(t *testing.T) {
		t.Parallel()

		if _, err := Domain(""); !errors.Is(err, ErrNoDomain) {
			t.Errorf("expected ErrNoDomain, got %v", err)
		}
	})
}

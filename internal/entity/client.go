package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/seoscan/internal/model"
)

// ErrNoAPIKey is returned when entity extraction is attempted without an
// API key.
var ErrNoAPIKey = errors.New("entity extraction requires an API key")

// defaultEndpoint is the Google Cloud Natural Language analyzeEntities
// endpoint.
const defaultEndpoint = "https://language.googleapis.com/v1/documents:analyzeEntities"

// Extractor extracts named entities from page text.
//
// Design decision: The pipeline depends on this interface rather than on
// Client directly because:
//  1. Tests substitute a fake without network access
//  2. The API vendor is an implementation detail of one constructor
//  3. A crawl-only run simply passes no extractor at all
type Extractor interface {
	// Extract analyzes text and returns the entities found in it.
	// Source is the URL of the page the text came from and is copied
	// onto every returned entity.
	Extract(ctx context.Context, source, text string) ([]model.Entity, error)
}

// Client calls the Google Cloud Natural Language API over REST with API
// key authentication.
type Client struct {
	// apiKey authenticates requests. Sent as a query parameter per the
	// API's key-auth scheme.
	apiKey string

	// endpoint is the analyzeEntities URL. Overridable for tests.
	endpoint string

	// httpClient performs the requests.
	httpClient *http.Client

	// minSalience drops entities scoring below this threshold.
	minSalience float64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the API endpoint. Used by tests.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMinSalience sets the salience threshold below which entities are
// discarded.
func WithMinSalience(min float64) ClientOption {
	return func(c *Client) {
		c.minSalience = min
	}
}

// NewClient creates a Client with a 10 second timeout and the default
// salience threshold.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:      apiKey,
		endpoint:    defaultEndpoint,
		minSalience: model.MinSalience,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return c
}

// analyzeRequest is the analyzeEntities request body.
type analyzeRequest struct {
	Document     analyzeDocument `json:"document"`
	EncodingType string          `json:"encodingType"`
}

// analyzeDocument describes the text being analyzed.
type analyzeDocument struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// analyzeResponse is the subset of the analyzeEntities response we use.
type analyzeResponse struct {
	Entities []struct {
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Salience float64 `json:"salience"`
	} `json:"entities"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract sends the text to the analyzeEntities endpoint and returns the
// entities at or above the salience threshold, salience rounded to four
// decimals. Empty text short-circuits to an empty result without a
// request.
func (c *Client) Extract(ctx context.Context, source, text string) ([]model.Entity, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if text == "" {
		return nil, nil
	}

	payload, err := json.Marshal(analyzeRequest{
		Document: analyzeDocument{
			Type:    "PLAIN_TEXT",
			Content: text,
		},
		EncodingType: "UTF8",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	reqURL := c.endpoint + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entity extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analyze response: %w", err)
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return nil, fmt.Errorf("entity extraction failed: %s (code %d)", parsed.Error.Message, parsed.Error.Code)
		}
		return nil, fmt.Errorf("entity extraction failed with status %d", resp.StatusCode)
	}

	entities := make([]model.Entity, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		salience := model.RoundSalience(e.Salience)
		if salience < c.minSalience {
			continue
		}
		entities = append(entities, model.Entity{
			Source:   source,
			Name:     e.Name,
			Salience: salience,
			Category: e.Type,
		})
	}

	return entities, nil
}

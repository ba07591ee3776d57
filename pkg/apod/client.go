// Package apod retrieves the astronomy picture feed and normalizes it to domain records.
package apod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/apodview/pkg/domain"
)

// DefaultFeedURL is the mirror of the APOD feed used when no other url is configured
const DefaultFeedURL = "https://cdn.jsdelivr.net/gh/GCA-Classroom/apod/data.json"

const defaultMaxBodySize = 16 * 1024 * 1024

// NetworkError is returned when the feed responds with a non-success status
type NetworkError struct {
	Status int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("feed request failed with status %d", e.Status)
}

// Config holds client settings
type Config struct {
	URL         string
	Timeout     time.Duration
	Retries     int
	MaxBodySize int64
	UserAgent   string
}

// HTTPClient fetches the feed over HTTP
type HTTPClient struct {
	url         string
	client      *http.Client
	retries     int
	maxBodySize int64
	userAgent   string
}

// rawRecord mirrors a single feed entry as served
type rawRecord struct {
	Title        string `json:"title"`
	Date         string `json:"date"`
	MediaType    string `json:"media_type"`
	URL          string `json:"url"`
	HDURL        string `json:"hdurl"`
	ThumbnailURL string `json:"thumbnail_url"`
	Explanation  string `json:"explanation"`
}

// NewHTTPClient creates a new feed client
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.URL == "" {
		cfg.URL = DefaultFeedURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 1
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "apodview/1.0"
	}

	return &HTTPClient{
		url:         cfg.URL,
		client:      &http.Client{Timeout: cfg.Timeout},
		retries:     cfg.Retries,
		maxBodySize: cfg.MaxBodySize,
		userAgent:   cfg.UserAgent,
	}
}

// Fetch retrieves the feed and returns records having at least one media reference.
// Non-success statuses are reported as *NetworkError, unexpected body shapes give an empty list.
func (c *HTTPClient) Fetch(ctx context.Context) ([]domain.Record, error) {
	body, err := c.get(ctx)
	if err != nil {
		return nil, err
	}

	raws := decodeFeed(body)
	records := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		rec := domain.Record{
			Title:        raw.Title,
			Date:         raw.Date,
			MediaType:    domain.ParseMediaType(raw.MediaType),
			URL:          raw.URL,
			HDURL:        raw.HDURL,
			ThumbnailURL: raw.ThumbnailURL,
			Explanation:  raw.Explanation,
		}
		if !rec.HasViewableMedia() {
			continue
		}
		records = append(records, rec)
	}

	lgr.Printf("[DEBUG] fetched %d entries from %s, %d with media", len(raws), c.url, len(records))
	return records, nil
}

// get performs the request, retrying only when no response was received at all
func (c *HTTPClient) get(ctx context.Context) ([]byte, error) {
	var resp *http.Response
	retrier := repeater.NewBackoff(c.retries, 200*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Cache-Control", "no-cache, no-store")
		req.Header.Set("Pragma", "no-cache")
		req.Header.Set("User-Agent", c.userAgent)

		r, err := c.client.Do(req)
		if err != nil {
			lgr.Printf("[DEBUG] feed request to %s failed: %v", c.url, err)
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return body, nil
}

// decodeFeed accepts either a bare list or an object with a "results" list
func decodeFeed(body []byte) []rawRecord {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		lgr.Printf("[WARN] empty feed body")
		return nil
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			lgr.Printf("[WARN] can't decode feed list: %v", err)
			return nil
		}
	case '{':
		var wrapper struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			lgr.Printf("[WARN] can't decode feed object: %v", err)
			return nil
		}
		res := bytes.TrimSpace(wrapper.Results)
		if len(res) == 0 || res[0] != '[' {
			lgr.Printf("[WARN] feed object has no results list")
			return nil
		}
		if err := json.Unmarshal(res, &items); err != nil {
			lgr.Printf("[WARN] can't decode feed results: %v", err)
			return nil
		}
	default:
		lgr.Printf("[WARN] unexpected feed shape, starts with %q", trimmed[0])
		return nil
	}

	result := make([]rawRecord, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			continue // null, scalars and lists are not records
		}
		var raw rawRecord
		if err := json.Unmarshal(item, &raw); err != nil {
			lgr.Printf("[DEBUG] skip feed entry %d: %v", i, err)
			continue
		}
		result = append(result, raw)
	}
	return result
}

// Package scraper fetches a single web page and extracts the structural
// features the dimension scorers work from.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidURL is returned when the input cannot be normalized into an
// absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid URL")

// FetchError describes a failed page retrieval: a network error, a timeout,
// or a non-2xx response. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Normalize turns user input into an absolute http(s) URL, prepending https://
// when no scheme is given. It returns ErrInvalidURL for anything that does not
// resolve to a host.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" || !strings.Contains(u.Hostname(), ".") {
		return "", fmt.Errorf("%w: missing or bare hostname", ErrInvalidURL)
	}
	return u.String(), nil
}

// Client retrieves pages with a bounded timeout and browser-like headers.
type Client struct {
	http        *http.Client
	userAgent   string
	maxBodySize int64
}

// NewClient creates a Client with connection pooling and the default 15 second
// request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  false,
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		maxBodySize: 10 * 1024 * 1024,
	}
}

// Fetch retrieves url in a single attempt. The caller gets either a complete
// Page or a *FetchError; retries are the caller's decision.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	// Some sites refuse obviously non-browser clients.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	responseTime := time.Since(start)

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	contentType := resp.Header.Get("Content-Type")
	charset := "utf-8"
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if cs, ok := params["charset"]; ok {
			charset = strings.ToLower(cs)
		}
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[strings.ToLower(name)] = resp.Header.Get(name)
	}
	// The transport strips Content-Encoding when it decodes a negotiated gzip
	// response. Put the encoding back so callers see what the server sent.
	if resp.Uncompressed {
		headers["content-encoding"] = "gzip"
	}

	return &Page{
		URL:  finalURL,
		HTML: string(body),
		Technical: TechnicalInfo{
			HasSSL:        strings.HasPrefix(finalURL, "https://"),
			ResponseTime:  responseTime.Milliseconds(),
			StatusCode:    resp.StatusCode,
			ContentType:   contentType,
			Charset:       charset,
			PageSize:      len(body),
			ServerHeaders: headers,
		},
	}, nil
}

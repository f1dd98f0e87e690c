package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/lysyi3m/news-comb/app/news"
)

const maxArticleBytes = 5 << 20

var ErrNoContent = errors.New("no content extracted")

// ContentExtractor fetches an article page and reduces it to its readable
// text.
type ContentExtractor struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

func NewContentExtractor(httpClient *http.Client, timeout time.Duration, userAgent string) *ContentExtractor {
	return &ContentExtractor{
		httpClient: httpClient,
		timeout:    timeout,
		userAgent:  userAgent,
	}
}

// Extract returns the plain-text body of the article at articleURL.
func (e *ContentExtractor) Extract(ctx context.Context, articleURL string) (string, error) {
	pageURL, err := url.Parse(articleURL)
	if err != nil || pageURL.Host == "" {
		return "", fmt.Errorf("invalid article URL %q", articleURL)
	}

	data, err := e.fetch(ctx, articleURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article content: %w", err)
	}

	return e.Run(data, pageURL)
}

// Run extracts readable text from an already fetched HTML page.
func (e *ContentExtractor) Run(data []byte, pageURL *url.URL) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty: %w", ErrNoContent)
	}

	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := news.StripHTML(article.TextContent)
	if text == "" {
		return "", ErrNoContent
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}

func (e *ContentExtractor) fetch(ctx context.Context, articleURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/news-comb/app/news"
)

const maxFeedBytes = 5 << 20

var _ Adapter = (*RSSAdapter)(nil)

type RSSAdapter struct {
	configCache *ConfigCache
	httpClient  *http.Client
	parser      *Parser
	filterer    *Filterer
	isolator    *Isolator
	userAgent   string
}

func NewRSSAdapter(configCache *ConfigCache, httpClient *http.Client, parser *Parser, filterer *Filterer, isolator *Isolator, userAgent string) *RSSAdapter {
	return &RSSAdapter{
		configCache: configCache,
		httpClient:  httpClient,
		parser:      parser,
		filterer:    filterer,
		isolator:    isolator,
		userAgent:   userAgent,
	}
}

// FetchAll fetches every enabled feed concurrently. Results are concatenated
// in source-name order; a failing feed contributes nothing.
func (a *RSSAdapter) FetchAll(ctx context.Context) []news.Item {
	configs := a.configCache.GetEnabledConfigs()
	results := make([][]news.Item, len(configs))

	var wg sync.WaitGroup
	for i, sourceConfig := range configs {
		wg.Add(1)
		go func(i int, sourceConfig *Config) {
			defer wg.Done()
			timeout := time.Duration(sourceConfig.Settings.Timeout) * time.Second
			results[i] = a.isolator.Run(ctx, sourceConfig.Label, timeout, func(ctx context.Context) ([]news.Item, error) {
				return a.FetchFeed(ctx, sourceConfig)
			})
		}(i, sourceConfig)
	}
	wg.Wait()

	var items []news.Item
	for _, r := range results {
		items = append(items, r...)
	}
	return items
}

// FetchFeed fetches and normalizes a single feed. Unlike FetchAll it reports
// failures to the caller.
func (a *RSSAdapter) FetchFeed(ctx context.Context, sourceConfig *Config) ([]news.Item, error) {
	data, err := a.fetch(ctx, sourceConfig.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	raws, err := a.parser.Run(data, sourceConfig)
	if err != nil {
		return nil, err
	}

	items := news.NormalizeAll(raws)
	return a.filterer.Run(items, sourceConfig), nil
}

func (a *RSSAdapter) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

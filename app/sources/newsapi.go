package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"github.com/lysyi3m/news-comb/app/news"
)

const (
	DefaultNewsAPIURL = "https://newsapi.org/v2/top-headlines"
	newsAPICategory   = "technology"
	newsAPIPageSize   = 50
)

var ErrBadStatus = errors.New("news api returned a non-ok status")

// newsAPIBranch is one language fetch of the News-API adapter.
type newsAPIBranch struct {
	Label    string
	Language news.Language
	Category news.Category
	Params   url.Values
}

var newsAPIBranches = []newsAPIBranch{
	{
		Label:    "NewsAPI-TR",
		Language: news.LanguageTR,
		Category: news.CategoryTurkish,
		Params:   url.Values{"country": {"tr"}},
	},
	{
		Label:    "NewsAPI-EN",
		Language: news.LanguageEN,
		Category: news.CategoryGlobal,
		Params:   url.Values{"language": {"en"}},
	},
}

// newsAPIResponse keeps articles raw so a non-array payload can be told apart
// from a decode failure.
type newsAPIResponse struct {
	Status   string          `json:"status"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Articles json.RawMessage `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

var _ Adapter = (*NewsAPIAdapter)(nil)

type NewsAPIAdapter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	isolator   *Isolator
	userAgent  string
}

func NewNewsAPIAdapter(baseURL, apiKey string, httpClient *http.Client, isolator *Isolator, userAgent string) *NewsAPIAdapter {
	if baseURL == "" {
		baseURL = DefaultNewsAPIURL
	}
	return &NewsAPIAdapter{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		isolator:   isolator,
		userAgent:  userAgent,
	}
}

func (a *NewsAPIAdapter) Enabled() bool {
	return a.apiKey != ""
}

// FetchAll fetches both language branches concurrently, Turkish first in the
// result. Without an API key it returns nothing.
func (a *NewsAPIAdapter) FetchAll(ctx context.Context) []news.Item {
	if !a.Enabled() {
		return nil
	}

	results := make([][]news.Item, len(newsAPIBranches))

	var wg sync.WaitGroup
	for i, branch := range newsAPIBranches {
		wg.Add(1)
		go func(i int, branch newsAPIBranch) {
			defer wg.Done()
			results[i] = a.isolator.Run(ctx, branch.Label, 0, func(ctx context.Context) ([]news.Item, error) {
				return a.fetchBranch(ctx, branch)
			})
		}(i, branch)
	}
	wg.Wait()

	var items []news.Item
	for _, r := range results {
		items = append(items, r...)
	}
	return items
}

func (a *NewsAPIAdapter) fetchBranch(ctx context.Context, branch newsAPIBranch) ([]news.Item, error) {
	body, err := a.fetch(ctx, branch.Params)
	if err != nil {
		return nil, err
	}

	articles, err := a.decode(body)
	if err != nil {
		return nil, err
	}

	raws := make([]news.RawItem, 0, len(articles))
	for _, article := range articles {
		raws = append(raws, news.RawItem{
			Title:       article.Title,
			URL:         article.URL,
			Summary:     article.Description,
			Content:     article.Content,
			Image:       article.URLToImage,
			PublishedAt: article.PublishedAt,
			Source:      branch.Label,
			Language:    branch.Language,
			Category:    branch.Category,
		})
	}

	return news.NormalizeAll(raws), nil
}

func (a *NewsAPIAdapter) fetch(ctx context.Context, params url.Values) ([]byte, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news api URL: %w", err)
	}

	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	q.Set("category", newsAPICategory)
	q.Set("pageSize", strconv.Itoa(newsAPIPageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("X-Api-Key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	// Error payloads carry a JSON body with status "error"; decode decides.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (a *NewsAPIAdapter) decode(body []byte) ([]newsAPIArticle, error) {
	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode news api response: %w", err)
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("%w: status=%q code=%q message=%q", ErrBadStatus, resp.Status, resp.Code, resp.Message)
	}

	raw := bytes.TrimSpace(resp.Articles)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: articles is not an array", ErrBadStatus)
	}

	var articles []newsAPIArticle
	if err := json.Unmarshal(raw, &articles); err != nil {
		return nil, fmt.Errorf("failed to decode news api articles: %w", err)
	}

	return articles, nil
}

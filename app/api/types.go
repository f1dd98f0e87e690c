package api

import (
	"context"
	"time"

	"github.com/lysyi3m/news-comb/app/aggregator"
	"github.com/lysyi3m/news-comb/app/feed"
	"github.com/lysyi3m/news-comb/app/news"
)

type NewsService interface {
	GetAggregatedNews(ctx context.Context) (*news.Aggregated, error)
	GetNewsByID(ctx context.Context, id string) (news.Item, error)
	Refresh(ctx context.Context) (*news.Aggregated, error)
	ExpiresAt() (time.Time, bool)
}

var _ NewsService = (*aggregator.Service)(nil)

type GeneratorInterface interface {
	Run(channel feed.Channel, items []news.Item) (string, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type ExtractorInterface interface {
	Extract(ctx context.Context, articleURL string) (string, error)
}

var _ ExtractorInterface = (*feed.ContentExtractor)(nil)

// itemResponse adds the derived card description to an item on the wire.
type itemResponse struct {
	news.Item
	CardDescription string `json:"cardDescription"`
}

func toItemResponses(items []news.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = itemResponse{Item: item, CardDescription: item.CardDescription()}
	}
	return out
}

type fetchRunResponse struct {
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	ItemCount  int       `json:"item_count"`
	Error      string    `json:"error,omitempty"`
	Succeeded  bool      `json:"succeeded"`
}

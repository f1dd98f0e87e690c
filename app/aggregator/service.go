package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/lysyi3m/news-comb/app/cache"
	"github.com/lysyi3m/news-comb/app/news"
)

const cacheKey = "aggregated-news"

var ErrNotFound = errors.New("news item not found")

// Service is the read API: the aggregate behind a TTL cache.
type Service struct {
	aggregator *Aggregator
	memo       *cache.Memo[*news.Aggregated]
}

func NewService(aggregator *Aggregator, ttl time.Duration) *Service {
	return &Service{
		aggregator: aggregator,
		memo:       cache.NewMemo(ttl, aggregator.Aggregate),
	}
}

// GetAggregatedNews returns the cached aggregate, recomputing it once the
// TTL has passed. The returned value is shared and must not be modified.
func (s *Service) GetAggregatedNews(ctx context.Context) (*news.Aggregated, error) {
	return s.memo.Get(ctx, cacheKey)
}

func (s *Service) GetNewsByID(ctx context.Context, id string) (news.Item, error) {
	aggregated, err := s.GetAggregatedNews(ctx)
	if err != nil {
		return news.Item{}, err
	}

	item, ok := FindByID(aggregated, id)
	if !ok {
		return news.Item{}, ErrNotFound
	}
	return item, nil
}

// Refresh recomputes the aggregate and replaces the cached value.
func (s *Service) Refresh(ctx context.Context) (*news.Aggregated, error) {
	return s.memo.Refresh(ctx, cacheKey)
}

// ExpiresAt reports when the cached aggregate goes stale.
func (s *Service) ExpiresAt() (time.Time, bool) {
	return s.memo.Expiry(cacheKey)
}

package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/news-comb/app/news"
	"github.com/lysyi3m/news-comb/app/sources"
	"golang.org/x/sync/errgroup"
)

const DefaultCategoryLimit = 30

type Aggregator struct {
	rss     sources.Adapter
	newsAPI sources.Adapter // nil when no API key is configured
	limit   int
}

func New(rss, newsAPI sources.Adapter, limit int) *Aggregator {
	if limit <= 0 {
		limit = DefaultCategoryLimit
	}
	return &Aggregator{
		rss:     rss,
		newsAPI: newsAPI,
		limit:   limit,
	}
}

// Aggregate fetches every source concurrently and builds the per-category
// and combined views. Source failures only shrink the result; an error means
// the orchestration itself could not complete.
func (a *Aggregator) Aggregate(ctx context.Context) (*news.Aggregated, error) {
	start := time.Now()

	var rssItems, apiItems []news.Item

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if a.rss != nil {
			rssItems = a.rss.FetchAll(gctx)
		}
		return nil
	})
	g.Go(func() error {
		if a.newsAPI != nil {
			apiItems = a.newsAPI.FetchAll(gctx)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch sources: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation interrupted: %w", err)
	}

	buckets := partition(rssItems, apiItems)

	result := &news.Aggregated{
		Turkish: a.build(buckets[news.CategoryTurkish], a.limit),
		Global:  a.build(buckets[news.CategoryGlobal], a.limit),
	}

	result.All = a.combine(result.Turkish, result.Global)

	slog.Info("News aggregated",
		"rss", len(rssItems),
		"news_api", len(apiItems),
		"turkish", len(result.Turkish),
		"global", len(result.Global),
		"all", len(result.All),
		"duration", time.Since(start))

	return result, nil
}

// build sorts newest first, drops near-duplicates and caps the result.
func (a *Aggregator) build(items []news.Item, limit int) []news.Item {
	sorted := append([]news.Item(nil), items...)
	news.SortByPublishedDesc(sorted)
	return news.Limit(news.Deduplicate(sorted), limit)
}

// combine builds the all view from the capped categories. Duplicates are
// dropped before sorting, so a story in both categories keeps its turkish copy.
func (a *Aggregator) combine(turkish, global []news.Item) []news.Item {
	combined := make([]news.Item, 0, len(turkish)+len(global))
	combined = append(combined, turkish...)
	combined = append(combined, global...)

	unique := news.Deduplicate(combined)
	news.SortByPublishedDesc(unique)
	return news.Limit(unique, 2*a.limit)
}

// partition groups items by their own category, preserving input order with
// every earlier list ahead of later ones.
func partition(lists ...[]news.Item) map[news.Category][]news.Item {
	buckets := make(map[news.Category][]news.Item)
	for _, items := range lists {
		for _, item := range items {
			if !item.Category.Valid() {
				slog.Debug("Item with unknown category dropped", "source", item.Source, "category", item.Category)
				continue
			}
			buckets[item.Category] = append(buckets[item.Category], item)
		}
	}
	return buckets
}

// FindByID searches all, then turkish, then global.
func FindByID(aggregated *news.Aggregated, id string) (news.Item, bool) {
	if aggregated == nil {
		return news.Item{}, false
	}
	for _, bucket := range [][]news.Item{aggregated.All, aggregated.Turkish, aggregated.Global} {
		for _, item := range bucket {
			if item.ID == id {
				return item, true
			}
		}
	}
	return news.Item{}, false
}

package sources

import (
	"log/slog"
	"strings"

	"github.com/lysyi3m/news-comb/app/news"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run drops items rejected by the source's include/exclude rules.
func (f *Filterer) Run(items []news.Item, sourceConfig *Config) []news.Item {
	if len(sourceConfig.Filters) == 0 {
		return items
	}

	kept := make([]news.Item, 0, len(items))
	for _, item := range items {
		if rejected, reason := f.applyFilters(item, sourceConfig.Filters); rejected {
			slog.Debug("Item filtered", "source", sourceConfig.Name, "title", item.Title, "reason", reason)
			continue
		}
		kept = append(kept, item)
	}

	return kept
}

func (f *Filterer) applyFilters(item news.Item, filters []ConfigFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, "excluded by " + filter.Field + " filter: contains '" + exclude + "'"
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, "excluded by " + filter.Field + " filter: no include rule matched"
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(item news.Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "description":
		return item.Description
	case "content":
		return item.Content
	case "link":
		return item.URL
	default:
		return ""
	}
}

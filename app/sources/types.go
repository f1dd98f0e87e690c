package sources

import (
	"context"

	"github.com/lysyi3m/news-comb/app/news"
)

// Config describes one RSS source, loaded from <name>.yml.
type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Label    string         `yaml:"label"` // Shown as the item source; defaults to Name
	Language news.Language  `yaml:"language"`
	Category news.Category  `yaml:"category"`
	Settings ConfigSettings `yaml:"settings"`
	Filters  []ConfigFilter `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled bool `yaml:"enabled"`
	Timeout int  `yaml:"timeout"` // seconds, 0 = process default
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// Adapter produces normalized items from one kind of source. Implementations
// never fail: per-source problems are logged and yield fewer items.
type Adapter interface {
	FetchAll(ctx context.Context) []news.Item
}

// FetchFunc is a single fallible fetch, wrapped by Isolator.Run.
type FetchFunc func(ctx context.Context) ([]news.Item, error)

package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://news.example.com)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for admin endpoints (optional)"`

	// Sources
	SourcesDir   string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing RSS source files; built-in sources are used when it does not exist"`
	NewsAPIKey   string `long:"news-api-key" env:"NEWS_API_KEY" description:"News API key; the News API source is skipped when empty"`
	NewsAPIURL   string `long:"news-api-url" env:"NEWS_API_URL" default:"https://newsapi.org/v2/top-headlines" description:"News API top-headlines endpoint"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"5" description:"Per-source fetch timeout in seconds"`

	// Aggregation and cache
	CategoryLimit int `long:"category-limit" env:"CATEGORY_LIMIT" default:"30" description:"Maximum items per category; the combined view holds twice as many"`
	CacheTTL      int `long:"cache-ttl" env:"CACHE_TTL" default:"900" description:"Aggregate cache lifetime in seconds"`
	WarmInterval  int `long:"warm-interval" env:"WARM_INTERVAL" default:"0" description:"Background refresh interval in seconds (0 disables)"`

	// Fetch log
	DBPath string `long:"db-path" env:"DB_PATH" description:"SQLite file for the fetch-run log (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"News Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Istanbul)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses flags and environment. It returns nil, nil when help was shown.
func Load() (*Cfg, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg := &Cfg{
		Port:          raw.Port,
		BaseUrl:       raw.BaseUrl,
		APIAccessKey:  raw.APIAccessKey,
		SourcesDir:    raw.SourcesDir,
		NewsAPIKey:    raw.NewsAPIKey,
		NewsAPIURL:    raw.NewsAPIURL,
		FetchTimeout:  time.Duration(raw.FetchTimeout) * time.Second,
		CategoryLimit: raw.CategoryLimit,
		CacheTTL:      time.Duration(raw.CacheTTL) * time.Second,
		WarmInterval:  time.Duration(raw.WarmInterval) * time.Second,
		DBPath:        raw.DBPath,
		UserAgent:     raw.UserAgent,
		Timezone:      raw.Timezone,
		Debug:         raw.Debug,
		Version:       GetVersion(),
	}

	if cfg.BaseUrl == "" {
		cfg.BaseUrl = "http://localhost:" + cfg.Port
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(raw *rawCfg) error {
	if raw.CategoryLimit <= 0 {
		return fmt.Errorf("category limit must be positive, got %d", raw.CategoryLimit)
	}
	if raw.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %d", raw.CacheTTL)
	}
	if raw.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %d", raw.FetchTimeout)
	}
	if raw.WarmInterval < 0 {
		return fmt.Errorf("warm interval cannot be negative, got %d", raw.WarmInterval)
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}

	time.Local = loc
	slog.Debug("Timezone configured", "timezone", timezone)
	return nil
}

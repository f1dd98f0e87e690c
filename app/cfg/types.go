package cfg

import (
	"time"
)

type Cfg struct {
	// Server configuration
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Sources
	SourcesDir   string
	NewsAPIKey   string
	NewsAPIURL   string
	FetchTimeout time.Duration

	// Aggregation and cache
	CategoryLimit int
	CacheTTL      time.Duration
	WarmInterval  time.Duration

	// Fetch log
	DBPath string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

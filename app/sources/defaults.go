package sources

import (
	"github.com/lysyi3m/news-comb/app/news"
)

// DefaultConfigs is the built-in source set: Turkish technology outlets.
func DefaultConfigs() []*Config {
	return []*Config{
		{
			Name:     "webtekno",
			URL:      "https://www.webtekno.com/rss.xml",
			Label:    "Webtekno",
			Language: news.LanguageTR,
			Category: news.CategoryTurkish,
			Settings: ConfigSettings{Enabled: true},
		},
		{
			Name:     "shiftdelete",
			URL:      "https://shiftdelete.net/feed",
			Label:    "ShiftDelete.Net",
			Language: news.LanguageTR,
			Category: news.CategoryTurkish,
			Settings: ConfigSettings{Enabled: true},
		},
		{
			Name:     "donanimhaber",
			URL:      "https://www.donanimhaber.com/rss/tum/",
			Label:    "DonanımHaber",
			Language: news.LanguageTR,
			Category: news.CategoryTurkish,
			Settings: ConfigSettings{Enabled: true},
		},
	}
}

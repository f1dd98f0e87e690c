package news

import (
	"time"
)

type Language string

const (
	LanguageTR Language = "tr"
	LanguageEN Language = "en"
)

// Category is the coarse bucket an item lands in. It is independent of
// Language: a Turkish-language outlet and an English wire story about Turkey
// may both be CategoryTurkish.
type Category string

const (
	CategoryTurkish Category = "turkish"
	CategoryGlobal  Category = "global"
)

func (c Category) Valid() bool {
	return c == CategoryTurkish || c == CategoryGlobal
}

const (
	DescriptionMaxLen     = 200
	CardDescriptionMaxLen = 140
)

type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Image       string    `json:"image,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Language    Language  `json:"language"`
	PublishedAt time.Time `json:"publishedAt"`
	Category    Category  `json:"category"`
}

// CardDescription is derived on demand and never stored on the item.
func (i Item) CardDescription() string {
	return TruncateDescriptionForCard(i.Description)
}

type Aggregated struct {
	Turkish []Item `json:"turkish"`
	Global  []Item `json:"global"`
	All     []Item `json:"all"`
}

// Bucket returns the sequence for the given name: "turkish", "global" or "all".
func (a *Aggregated) Bucket(name string) ([]Item, bool) {
	switch name {
	case string(CategoryTurkish):
		return a.Turkish, true
	case string(CategoryGlobal):
		return a.Global, true
	case "all":
		return a.All, true
	default:
		return nil, false
	}
}

package news

import (
	"strings"
)

// RawItem is an untrusted record as lifted from a source payload. Adapters
// fill it field by field; only Normalize turns it into an Item.
type RawItem struct {
	Title       string
	URL         string
	Summary     string
	Content     string
	Image       string
	PublishedAt any // string, time.Time, *time.Time or nil
	Source      string
	Language    Language
	Category    Category
}

func Normalize(raw RawItem) Item {
	title := StripHTML(raw.Title)
	link := strings.TrimSpace(raw.URL)

	return Item{
		ID:          NewsID(link, title, raw.Source),
		Title:       title,
		Description: TruncateDescription(raw.Summary),
		Content:     StripHTML(raw.Content),
		Image:       ImageURL(raw.Image),
		URL:         link,
		Source:      raw.Source,
		Language:    raw.Language,
		PublishedAt: ParseDate(raw.PublishedAt),
		Category:    raw.Category,
	}
}

func NormalizeAll(raws []RawItem) []Item {
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		items = append(items, Normalize(raw))
	}
	return FilterInvalidItems(items)
}

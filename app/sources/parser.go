package sources

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/news-comb/app/news"
	"github.com/mmcdole/gofeed"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses RSS, Atom or JSON Feed data into raw records attributed to the
// given source.
func (p *Parser) Run(data []byte, sourceConfig *Config) ([]news.RawItem, error) {
	// gofeed.Parser keeps per-parse state; one per call.
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]news.RawItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		items = append(items, p.rawItem(item, sourceConfig))
	}

	return items, nil
}

func (p *Parser) rawItem(item *gofeed.Item, sourceConfig *Config) news.RawItem {
	raw := news.RawItem{
		Title:    item.Title,
		URL:      cmp.Or(item.Link, p.permalink(item.GUID)),
		Summary:  cmp.Or(item.Description, item.Content),
		Content:  item.Content,
		Image:    p.extractImage(item),
		Source:   sourceConfig.Label,
		Language: sourceConfig.Language,
		Category: sourceConfig.Category,
	}

	switch {
	case item.PublishedParsed != nil:
		raw.PublishedAt = item.PublishedParsed
	case item.Published != "":
		raw.PublishedAt = item.Published
	case item.UpdatedParsed != nil:
		raw.PublishedAt = item.UpdatedParsed
	}

	return raw
}

// extractImage prefers an image enclosure, then the feed-level item image,
// then the first <img> in the content or description.
func (p *Parser) extractImage(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if enclosure.Type != "" && !strings.HasPrefix(enclosure.Type, "image/") {
			continue
		}
		if u := news.ImageURL(enclosure.URL); u != "" {
			return u
		}
	}

	if item.Image != nil {
		if u := news.ImageURL(item.Image.URL); u != "" {
			return u
		}
	}

	for _, html := range []string{item.Content, item.Description} {
		if u := p.firstImg(html); u != "" {
			return u
		}
	}

	return ""
}

func (p *Parser) firstImg(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")
	return news.ImageURL(src)
}

func (p *Parser) permalink(guid string) string {
	if strings.HasPrefix(guid, "http://") || strings.HasPrefix(guid, "https://") {
		return guid
	}
	return ""
}

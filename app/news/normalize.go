package news

import (
	"hash/fnv"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

const ellipsis = "..."

const isoLayout = "2006-01-02T15:04:05.000Z07:00"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes anything that looks like a tag and collapses whitespace.
// It is not an HTML parser; entities are left untouched.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	text := tagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts text to at most maxLen runes, backing off to the last
// whitespace boundary and appending an ellipsis. Text that already fits is
// returned trimmed.
func Truncate(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	runes := []rune(text)
	cut := runes[:maxLen]

	// A boundary right after the cut means the cut already ends on a whole word.
	if !unicode.IsSpace(runes[maxLen]) {
		if idx := lastSpace(cut); idx > 0 {
			cut = cut[:idx]
		}
	}

	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + ellipsis
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

func TruncateDescription(s string) string {
	return Truncate(StripHTML(s), DescriptionMaxLen)
}

func TruncateDescriptionForCard(s string) string {
	return Truncate(StripHTML(s), CardDescriptionMaxLen)
}

// ParseDate coerces a string, time.Time or *time.Time into a time. Anything
// missing or unparseable becomes the current time.
func ParseDate(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		if !v.IsZero() {
			return v.UTC()
		}
	case *time.Time:
		if v != nil && !v.IsZero() {
			return v.UTC()
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			break
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC()
		}
		if t, err := dateparse.ParseAny(s); err == nil && !t.IsZero() {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// ToISODate renders value as an ISO-8601 UTC timestamp with millisecond
// precision. The output always parses back to the same instant.
func ToISODate(value any) string {
	return ParseDate(value).Format(isoLayout)
}

// NewsID derives the stable item id from (source, url, title). Same triple,
// same id across runs and processes.
func NewsID(rawURL, title, source string) string {
	h := fnv.New64a()
	h.Write([]byte(source + ":" + rawURL + ":" + title))
	return strconv.FormatUint(h.Sum64(), 36)
}

// ImageURL returns s if it is an absolute http(s) URL and "" otherwise.
func ImageURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return s
}

// FilterInvalidItems keeps, in order, the items with a non-blank title and url.
func FilterInvalidItems(items []Item) []Item {
	valid := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.URL) == "" {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

package news

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	substringMinLen  = 10
	overlapMinWord   = 3
	overlapThreshold = 0.7
)

// NormalizeTitle lowercases, drops everything except letters, numbers and
// whitespace, and collapses whitespace runs.
func NormalizeTitle(title string) string {
	// Casers are stateful; one per call keeps this safe for concurrent use.
	lower := cases.Lower(language.Und).String(title)

	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lower)

	return strings.Join(strings.Fields(kept), " ")
}

// Similar reports whether two normalized titles name the same story. The
// word-overlap test is directional: it measures how much of b is found in a.
func Similar(a, b string) bool {
	if a == b {
		return true
	}

	if utf8.RuneCountInString(a) >= substringMinLen && utf8.RuneCountInString(b) >= substringMinLen {
		if strings.Contains(a, b) || strings.Contains(b, a) {
			return true
		}
	}

	wordsA := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		if utf8.RuneCountInString(w) >= overlapMinWord {
			wordsA[w] = struct{}{}
		}
	}

	total, common := 0, 0
	for _, w := range strings.Fields(b) {
		if utf8.RuneCountInString(w) < overlapMinWord {
			continue
		}
		total++
		if _, ok := wordsA[w]; ok {
			common++
		}
	}
	if total == 0 {
		return false
	}

	return float64(common)/float64(total) >= overlapThreshold
}

// Deduplicate keeps the first occurrence of every story. Each candidate is
// compared against every item kept so far, kept title first.
func Deduplicate(items []Item) []Item {
	kept := make([]Item, 0, len(items))
	keptTitles := make([]string, 0, len(items))

	for _, item := range items {
		title := NormalizeTitle(item.Title)

		duplicate := false
		for _, existing := range keptTitles {
			if Similar(existing, title) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		kept = append(kept, item)
		keptTitles = append(keptTitles, title)
	}

	return kept
}

// SortByPublishedDesc sorts in place, newest first. Ties keep input order.
func SortByPublishedDesc(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}

func Limit(items []Item, n int) []Item {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

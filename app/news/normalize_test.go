package news

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain text", "  Hello   world ", "Hello world"},
		{"tags", "<p>Hello <b>World</b></p>", "Hello World"},
		{"adjacent blocks", "<p>first</p><p>second</p>", "first second"},
		{"attributes", `<a href="https://example.com" class="x">link</a> text`, "link text"},
		{"newlines", "line one\n\n\tline two", "line one line two"},
		{"unclosed bracket", "a < b and c", "a < b and c"},
		{"turkish", "<div>Yapay zekâ <em>güncellemesi</em></div>", "Yapay zekâ güncellemesi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripHTML(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestStripHTML_Idempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello <b>World</b></p>",
		"<<b>>nested<</b>>",
		"a < b > c",
		"<img src=x>caption<br/>more",
		"no tags at all",
	}

	for _, input := range inputs {
		once := StripHTML(input)
		twice := StripHTML(once)
		if once != twice {
			t.Errorf("StripHTML not idempotent for %q: once=%q twice=%q", input, once, twice)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"fits", "short text", 20, "short text"},
		{"fits after trim", "   short text   ", 10, "short text"},
		{"exact length", "exactly ten", 11, "exactly ten"},
		{"backs off to word boundary", "The quick brown fox jumps", 12, "The quick..."},
		{"cut on boundary", "The quick brown fox", 9, "The quick..."},
		{"single long word", "Supercalifragilistic", 5, "Super..."},
		{"unicode runes", "Çok güzel bir haber başlığı", 10, "Çok güzel..."},
		{"zero length", "anything", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Truncate(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestTruncate_Bounds(t *testing.T) {
	text := "Lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor incididunt"
	words := strings.Fields(text)

	for maxLen := 1; maxLen <= len(text)+5; maxLen++ {
		result := Truncate(text, maxLen)
		if utf8.RuneCountInString(result) > maxLen+len(ellipsis) {
			t.Fatalf("maxLen %d: result %q exceeds bound", maxLen, result)
		}

		if !strings.HasSuffix(result, ellipsis) {
			continue
		}

		// Every kept word must be whole unless the first word alone exceeds maxLen.
		body := strings.TrimSuffix(result, ellipsis)
		kept := strings.Fields(body)
		if len(words[0]) > maxLen {
			continue
		}
		for i, w := range kept {
			if w != words[i] {
				t.Errorf("maxLen %d: word %d split: got %q, want %q", maxLen, i, w, words[i])
			}
		}
	}
}

func TestTruncateDescription(t *testing.T) {
	long := "<p>" + strings.Repeat("kelime ", 60) + "</p>"

	desc := TruncateDescription(long)
	if utf8.RuneCountInString(desc) > DescriptionMaxLen+len(ellipsis) {
		t.Errorf("Description too long: %d", utf8.RuneCountInString(desc))
	}
	if strings.Contains(desc, "<") {
		t.Errorf("Description should be HTML-free, got %q", desc)
	}

	card := TruncateDescriptionForCard(long)
	if utf8.RuneCountInString(card) > CardDescriptionMaxLen+len(ellipsis) {
		t.Errorf("Card description too long: %d", utf8.RuneCountInString(card))
	}

	// Deriving the card text from the stored description gives the same result.
	if fromStored := TruncateDescriptionForCard(desc); fromStored != card {
		t.Errorf("Expected card from stored description %q, got %q", card, fromStored)
	}
}

func TestToISODate(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"rfc3339", "2023-07-03T10:00:00Z", "2023-07-03T10:00:00.000Z"},
		{"rfc3339 offset", "2023-07-03T13:00:00+03:00", "2023-07-03T10:00:00.000Z"},
		{"rfc1123z", "Mon, 03 Jul 2023 10:00:00 +0000", "2023-07-03T10:00:00.000Z"},
		{"time value", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToISODate(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestToISODate_FallsBackToNow(t *testing.T) {
	var nilTime *time.Time
	inputs := []any{nil, "", "not a date", nilTime, time.Time{}, 42}

	for _, input := range inputs {
		before := time.Now().Add(-time.Second)
		result := ToISODate(input)
		after := time.Now().Add(time.Second)

		parsed, err := time.Parse(time.RFC3339Nano, result)
		if err != nil {
			t.Fatalf("Output %q for %v does not parse: %v", result, input, err)
		}
		if parsed.Before(before) || parsed.After(after) {
			t.Errorf("Expected 'now' for %v, got %s", input, result)
		}
	}
}

func TestToISODate_Idempotent(t *testing.T) {
	inputs := []any{"2023-07-03T10:00:00Z", "Mon, 03 Jul 2023 10:00:00 +0000", nil, "garbage"}

	for _, input := range inputs {
		once := ToISODate(input)
		twice := ToISODate(once)
		if once != twice {
			t.Errorf("ToISODate not idempotent for %v: %q vs %q", input, once, twice)
		}
	}
}

func TestNewsID(t *testing.T) {
	id1 := NewsID("https://example.com/a", "Title", "Source")
	id2 := NewsID("https://example.com/a", "Title", "Source")

	if id1 == "" {
		t.Fatal("Expected non-empty id")
	}
	if id1 != id2 {
		t.Errorf("Expected identical ids, got '%s' and '%s'", id1, id2)
	}

	variants := []string{
		NewsID("https://example.com/b", "Title", "Source"),
		NewsID("https://example.com/a", "Other Title", "Source"),
		NewsID("https://example.com/a", "Title", "Other Source"),
	}
	for i, v := range variants {
		if v == id1 {
			t.Errorf("Variant %d should produce a different id", i)
		}
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"http://cdn.example.com/a.jpg", "http://cdn.example.com/a.jpg"},
		{"/relative/a.jpg", ""},
		{"data:image/png;base64,AAAA", ""},
		{"ftp://example.com/a.jpg", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if result := ImageURL(tt.input); result != tt.expected {
			t.Errorf("ImageURL(%q): expected '%s', got '%s'", tt.input, tt.expected, result)
		}
	}
}

func TestFilterInvalidItems(t *testing.T) {
	items := []Item{
		{Title: "Valid 1", URL: "https://example.com/1"},
		{Title: "   ", URL: "https://example.com/2"},
		{Title: "No URL", URL: ""},
		{Title: "Valid 2", URL: "https://example.com/3"},
		{Title: "Blank URL", URL: " \t"},
	}

	result := FilterInvalidItems(items)

	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result))
	}
	if result[0].Title != "Valid 1" || result[1].Title != "Valid 2" {
		t.Errorf("Expected order [Valid 1, Valid 2], got [%s, %s]", result[0].Title, result[1].Title)
	}
}

func TestNormalize(t *testing.T) {
	raw := RawItem{
		Title:       "  <b>Yeni</b> telefon tanıtıldı ",
		URL:         " https://example.com/telefon ",
		Summary:     "<p>Şirket yeni telefonunu <a href='#'>tanıttı</a>.</p>",
		Content:     "<div>Full body</div>",
		Image:       "/relative.png",
		PublishedAt: "2023-07-03T10:00:00Z",
		Source:      "Webtekno",
		Language:    LanguageTR,
		Category:    CategoryTurkish,
	}

	item := Normalize(raw)

	if item.Title != "Yeni telefon tanıtıldı" {
		t.Errorf("Expected cleaned title, got '%s'", item.Title)
	}
	if item.URL != "https://example.com/telefon" {
		t.Errorf("Expected trimmed URL, got '%s'", item.URL)
	}
	if item.Description != "Şirket yeni telefonunu tanıttı ." {
		t.Errorf("Unexpected description '%s'", item.Description)
	}
	if item.Content != "Full body" {
		t.Errorf("Expected content 'Full body', got '%s'", item.Content)
	}
	if item.Image != "" {
		t.Errorf("Expected relative image to be dropped, got '%s'", item.Image)
	}
	if item.ID != NewsID(item.URL, item.Title, "Webtekno") {
		t.Errorf("Expected id derived from url/title/source")
	}
	if !item.PublishedAt.Equal(time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected published date %v", item.PublishedAt)
	}
}

func TestNormalizeAll_DropsInvalid(t *testing.T) {
	raws := []RawItem{
		{Title: "Good", URL: "https://example.com/good"},
		{Title: "<br/>", URL: "https://example.com/empty-title"},
		{Title: "No link"},
	}

	items := NormalizeAll(raws)
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Title != "Good" {
		t.Errorf("Expected 'Good', got '%s'", items[0].Title)
	}
}

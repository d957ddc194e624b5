package extract

import (
	"strings"
	"unicode"

	"github.com/rkuznets/dupaudit/internal/model"
	"github.com/rkuznets/dupaudit/internal/similarity"
)

const (
	maxContentLength     = 500 // Hard cap after sanitization
	maxParagraphsPerPage = 10
	minParagraphLength   = 30  // Shorter paragraphs carry no duplication signal
	paragraphTruncateAt  = 300 // Longer paragraphs are cut to bound token cost
)

// ExtractedContent holds all typed content items from one crawl
type ExtractedContent struct {
	Titles       []model.ContentItem
	Descriptions []model.ContentItem
	Headings     map[int][]model.ContentItem // Keyed by level 1-6
	Paragraphs   []model.ContentItem
	TotalPages   int
}

// Extractor turns raw page records into sanitized content items
type Extractor struct{}

// NewExtractor creates a new content extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes all page records into typed content lists. Records whose
// URLs normalize to the same page are collapsed to the first occurrence, so a
// page reachable under two URL spellings is never counted as its own
// duplicate. Malformed or empty fields produce no items; Extract never fails.
func (e *Extractor) Extract(pages []model.PageRecord) ExtractedContent {
	content := ExtractedContent{
		Titles:       []model.ContentItem{},
		Descriptions: []model.ContentItem{},
		Headings:     make(map[int][]model.ContentItem),
		Paragraphs:   []model.ContentItem{},
	}

	seen := make(map[string]bool)

	for _, page := range pages {
		key := similarity.NormalizeURL(page.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		idx := content.TotalPages
		content.TotalPages++

		if title := Sanitize(page.Title); title != "" {
			content.Titles = append(content.Titles, model.ContentItem{
				Content:   title,
				URL:       page.URL,
				PageIndex: idx,
			})
		}

		if desc := Sanitize(page.MetaDescription); desc != "" {
			content.Descriptions = append(content.Descriptions, model.ContentItem{
				Content:   desc,
				URL:       page.URL,
				PageIndex: idx,
			})
		}

		for _, h := range page.Headings {
			if h.Level < 1 || h.Level > 6 {
				continue
			}
			if text := Sanitize(h.Text); text != "" {
				content.Headings[h.Level] = append(content.Headings[h.Level], model.ContentItem{
					Content:   text,
					URL:       page.URL,
					PageIndex: idx,
				})
			}
		}

		content.Paragraphs = append(content.Paragraphs, extractParagraphs(page, idx)...)
	}

	return content
}

// HeadingLevel returns the items for one heading level (nil-safe)
func (c ExtractedContent) HeadingLevel(level int) []model.ContentItem {
	return c.Headings[level]
}

// extractParagraphs applies the per-page paragraph rules: only the first 10
// paragraphs are considered, short ones are skipped, long ones truncated
func extractParagraphs(page model.PageRecord, idx int) []model.ContentItem {
	var items []model.ContentItem

	for i, p := range page.Paragraphs {
		if i >= maxParagraphsPerPage {
			break
		}

		text := Sanitize(p)
		if len(text) <= minParagraphLength {
			continue
		}
		if len(text) > paragraphTruncateAt {
			text = truncateAt(text, paragraphTruncateAt) + "..."
		}

		items = append(items, model.ContentItem{
			Content:   text,
			URL:       page.URL,
			PageIndex: idx,
		})
	}

	return items
}

// Sanitize normalizes raw extracted text: collapses whitespace, strips
// control and other non-printable characters, and caps the length.
// Sanitize is idempotent.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if !unicode.IsPrint(r) {
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}

	out := b.String()
	if len(out) > maxContentLength {
		out = truncateAt(out, maxContentLength)
	}
	return out
}

// truncateAt cuts s to at most n bytes without splitting a UTF-8 sequence
func truncateAt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8RuneStart(s[n]) {
		n--
	}
	return strings.TrimRight(s[:n], " ")
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

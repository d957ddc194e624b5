package similarity

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/rkuznets/dupaudit/internal/model"
)

// NormalizeContentKey reduces content to its comparison identity: lowercase,
// Unicode letters and digits only, single spaces. Two items with equal keys
// are exact duplicates. Idempotent.
func NormalizeContentKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}

	return b.String()
}

// NormalizeURL reduces a URL to its page identity: scheme + host + path,
// lowercased host with the www. prefix and default port stripped, trailing
// slash and fragment dropped. Returns "" for unparseable input.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return ""
	}

	if port := u.Port(); port != "" {
		if !(scheme == "http" && port == "80") && !(scheme == "https" && port == "443") {
			host = host + ":" + port
		}
	}

	path := strings.TrimSuffix(u.EscapedPath(), "/")

	return scheme + "://" + host + path
}

// DedupeByURL keeps the first item per normalized URL, preserving order.
// Items with unparseable URLs are kept as-is.
func DedupeByURL(items []model.ContentItem) []model.ContentItem {
	seen := make(map[string]bool, len(items))
	out := make([]model.ContentItem, 0, len(items))

	for _, item := range items {
		key := NormalizeURL(item.URL)
		if key == "" {
			key = item.URL
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}

	return out
}

// URLsOf extracts the (raw) URLs of a deduplicated item list
func URLsOf(items []model.ContentItem) []string {
	urls := make([]string, len(items))
	for i, item := range items {
		urls[i] = item.URL
	}
	return urls
}

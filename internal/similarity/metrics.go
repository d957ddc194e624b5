package similarity

import (
	"strings"
	"unicode"
)

// LevenshteinSimilarity returns 100*(1 - editDistance/maxLen).
// Identical strings score 100, fully disjoint strings approach 0.
func LevenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 100
	}

	ra := []rune(a)
	rb := []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 100
	}

	dist := levenshteinDistance(ra, rb)
	return (1 - float64(dist)/float64(maxLen)) * 100
}

// levenshteinDistance computes edit distance over runes using the
// space-optimized O(min(m,n)) two-row algorithm
func levenshteinDistance(s1, s2 []rune) int {
	// Keep s1 the shorter one for space optimization
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}

	m, n := len(s1), len(s2)
	if m == 0 {
		return n
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)

	for i := 0; i <= m; i++ {
		prev[i] = i
	}

	for j := 1; j <= n; j++ {
		curr[0] = j
		for i := 1; i <= m; i++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[i] = min3(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[m]
}

// JaccardWordSimilarity returns 100 * |A∩B| / |A∪B| over word sets,
// considering only words longer than 2 characters
func JaccardWordSimilarity(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)

	if len(wa) == 0 && len(wb) == 0 {
		return 100
	}

	inter := 0
	for w := range wa {
		if wb[w] {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 0
	}

	return float64(inter) / float64(union) * 100
}

// LengthRatioSimilarity returns 100 * min(len)/max(len) over character counts
func LengthRatioSimilarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))

	if la == 0 && lb == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}

	if la > lb {
		la, lb = lb, la
	}
	return float64(la) / float64(lb) * 100
}

// StructuralPatternSimilarity compares the shape of two strings: every
// alphanumeric run collapses to a placeholder so "Product 17 - Acme" and
// "Product 42 - Acme" become structurally identical
func StructuralPatternSimilarity(a, b string) float64 {
	return LevenshteinSimilarity(structuralPattern(a), structuralPattern(b))
}

func structuralPattern(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inRun {
				b.WriteByte('x')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}

	return b.String()
}

// KeyphraseJaccard returns the Jaccard similarity (0-100) of the combined
// bigram and trigram phrase sets of the two strings
func KeyphraseJaccard(a, b string) float64 {
	pa := phraseSet(a)
	pb := phraseSet(b)

	if len(pa) == 0 && len(pb) == 0 {
		return 100
	}

	inter := 0
	for p := range pa {
		if pb[p] {
			inter++
		}
	}
	union := len(pa) + len(pb) - inter
	if union == 0 {
		return 0
	}

	return float64(inter) / float64(union) * 100
}

// wordSet tokenizes to lowercase words longer than 2 characters
func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(w) > 2 {
			set[w] = true
		}
	}
	return set
}

// phraseSet builds the bigram+trigram set over the lowercase word sequence
func phraseSet(s string) map[string]bool {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool)

	for i := 0; i+1 < len(words); i++ {
		set[words[i]+" "+words[i+1]] = true
	}
	for i := 0; i+2 < len(words); i++ {
		set[words[i]+" "+words[i+1]+" "+words[i+2]] = true
	}

	return set
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

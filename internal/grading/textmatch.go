package grading

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	articleRe = regexp.MustCompile(`^(?:the|a|an)\s+`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

const terminalPunct = ".,;!?"

// Normalize canonicalizes a text answer: markup removed, lowercased, one
// leading article dropped, whitespace collapsed, terminal punctuation trimmed.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	// Stripping can expose another article or punctuation ("the a cat", "rope .");
	// iterate to a fixed point so the result is idempotent.
	for {
		next := normalizeOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = articleRe.ReplaceAllString(s, "")
	s = strings.TrimRight(s, terminalPunct)
	return strings.TrimSpace(s)
}

// tokens returns the distinct words of normalized text with at least minLen runes.
func tokens(s string, minLen int) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) >= minLen {
			out[w] = struct{}{}
		}
	}
	return out
}

// levenshtein computes edit distance (insertion, deletion, substitution cost 1).
func levenshtein(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	n, m := len(ar), len(br)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	dp := make([]int, m+1)
	for j := 0; j <= m; j++ {
		dp[j] = j
	}
	for i := 1; i <= n; i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= m; j++ {
			tmp := dp[j]
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			dp[j] = min(dp[j]+1, dp[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return dp[m]
}

package reward

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// tokenize lower-cases a string, strips everything but letters and digits and
// returns the sorted unique tokens.
func tokenize(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127 {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// ratio scores the edit-distance similarity of two strings on a 0..100 scale.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	lensum := len([]rune(a)) + len([]rune(b))
	if lensum == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (lensum - dist) / lensum
}

// TokenSetRatio compares two strings as token sets: the shared tokens, and
// each side's shared-plus-own tokens, are joined and scored pairwise; the best
// score wins. Strings with identical token sets always score 100 regardless of
// word order or repetition.
func TokenSetRatio(a, b string) int {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 100
	}

	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}
	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}

	var inter, onlyA, onlyB []string
	for _, t := range tokensA {
		if setB[t] {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tokensB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}

	base := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := ratio(base, combinedA)
	if r := ratio(base, combinedB); r > best {
		best = r
	}
	if r := ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

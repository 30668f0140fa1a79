package reward

// stopwords filters function words and generic marketing filler out of
// product titles before the type comparison. The survivors approximate the
// nouns of the title well enough for set intersection.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "or": true, "but": true, "nor": true,
	"of": true, "for": true, "with": true, "without": true,
	"in": true, "on": true, "at": true, "by": true, "to": true,
	"from": true, "as": true, "per": true, "via": true,
	"is": true, "are": true, "be": true, "this": true, "that": true,
	"it": true, "its": true, "your": true, "our": true, "my": true,
	"all": true, "any": true, "each": true, "every": true,
	"new": true, "best": true, "great": true, "premium": true,
	"quality": true, "perfect": true, "ideal": true, "top": true,
	"more": true, "most": true, "very": true, "extra": true,
	"pack": true, "set": true, "pcs": true, "piece": true, "pieces": true,
	"count": true, "size": true, "color": true,
}

// salientTokens returns the lower-cased content tokens of a title, dropping
// stopwords and bare numbers.
func salientTokens(title string) []string {
	tokens := tokenize(title)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if stopwords[t] {
			continue
		}
		if isNumeric(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

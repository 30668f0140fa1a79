package domain

import "strings"

// Goal is one shopping intent assigned to a session. Immutable after
// generation; the weight is computed once from attribute frequencies over the
// whole goal set.
type Goal struct {
	Asin            string            `json:"asin"`
	Category        string            `json:"category"`
	Query           string            `json:"query"`
	Name            string            `json:"name"`
	ProductCategory string            `json:"product_category"`
	InstructionText string            `json:"instruction_text"`
	Attributes      []string          `json:"attributes"`
	PriceUpper      float64           `json:"price_upper"` // <= 0 means no ceiling
	Options         map[string]string `json:"goal_options"`
	Weight          float64           `json:"weight"`
}

// HasPriceCeiling reports whether the price term applies to this goal.
func (g *Goal) HasPriceCeiling() bool {
	return g.PriceUpper > 0
}

// CategoryPath splits the goal's "›"-separated category path into trimmed levels.
func (g *Goal) CategoryPath() []string {
	if g.ProductCategory == "" {
		return nil
	}
	parts := strings.Split(g.ProductCategory, "›")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

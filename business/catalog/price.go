package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// ParsePricing extracts a one- or two-element price range from a raw pricing
// string such as "$10.99" or "$10.99 to $22.50", together with the display
// tag. Anything unparseable falls back to the default price.
func ParsePricing(raw string, defaultPrice float64) ([]float64, string) {
	fallback := []float64{defaultPrice}
	fallbackTag := fmt.Sprintf("$%.2f", defaultPrice)
	if raw == "" {
		return fallback, fallbackTag
	}

	var prices []float64
	for _, segment := range strings.Split(raw, "$")[1:] {
		cleaned := nonPriceChars.ReplaceAllString(segment, "")
		if cleaned == "" {
			continue
		}
		p, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		prices = append(prices, p)
	}

	switch {
	case len(prices) == 1:
		return prices, fmt.Sprintf("$%.2f", prices[0])
	case len(prices) >= 2:
		bounds := prices[:2]
		sort.Float64s(bounds)
		return bounds, fmt.Sprintf("$%.2f to $%.2f", bounds[0], bounds[1])
	default:
		return fallback, fallbackTag
	}
}

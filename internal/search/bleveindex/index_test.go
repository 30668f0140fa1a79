//go:build !integration

package bleveindex

import (
	"context"
	"testing"
	"time"

	"shopsim/domain"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	products := []*domain.Product{
		{
			Asin:         "B01AAA0001",
			Title:        "Blue Cotton Shirt",
			Description:  "A soft everyday shirt.",
			BulletPoints: []string{"machine washable", "100% cotton"},
			Attributes:   []string{"cotton"},
			Category:     "fashion",
		},
		{
			Asin:        "B01AAA0002",
			Title:       "Insulated Steel Water Bottle",
			Description: "Keeps drinks cold for 24 hours.",
			Attributes:  []string{"insulated"},
			Category:    "kitchen",
		},
	}
	idx, err := New(products, 2*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSearchRanksRelevantProductFirst(t *testing.T) {
	idx := testIndex(t)

	asins, err := idx.Search(context.Background(), []string{"cotton", "shirt"}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(asins) == 0 || asins[0] != "B01AAA0001" {
		t.Errorf("Search(cotton shirt) = %v, want B01AAA0001 first", asins)
	}
}

func TestSearchHonorsTopN(t *testing.T) {
	idx := testIndex(t)

	asins, err := idx.Search(context.Background(), []string{"a"}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(asins) > 1 {
		t.Errorf("Search with topN=1 returned %d results", len(asins))
	}
}

func TestSearchCancelledContext(t *testing.T) {
	idx := testIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := idx.Search(ctx, []string{"shirt"}, 10); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

//go:build !integration

package catalog

import (
	"context"
	"errors"
	"math"
	"testing"

	"shopsim/domain"
)

type stubCatalogRepo struct {
	raws []domain.RawProduct
	err  error
}

func (s *stubCatalogRepo) FetchAll(ctx context.Context) ([]domain.RawProduct, error) {
	return s.raws, s.err
}

func sampleRaws() []domain.RawProduct {
	return []domain.RawProduct{
		{
			Asin:             "B01AAA0001",
			Name:             "Blue Cotton Shirt",
			FullDescription:  "A soft shirt.",
			SmallDescription: domain.StringList{"machine washable", "cotton"},
			Pricing:          "$19.99",
			Category:         "fashion",
			Query:            " Cotton Shirt ",
			ProductCategory:  "Clothing › Men › Shirts",
			CustomizationOptions: map[string][]string{
				"Color": {"Navy/White", "  Red  "},
				"Size":  {"small", "large"},
			},
			Attributes: []string{"cotton", "machine wash"},
		},
		{
			Asin:            "B01AAA0002",
			Name:            "Steel Bottle",
			Pricing:         "$25.00 to $12.00",
			Category:        "kitchen",
			Query:           "water bottle",
			ProductCategory: "Home › Kitchen",
		},
		{
			// duplicate id, must be dropped
			Asin: "B01AAA0001",
			Name: "Duplicate Shirt",
		},
		{
			// overlong id, must be skipped
			Asin: "B01AAA0003XXXXX",
			Name: "Bad ID",
		},
		{
			Asin: "nan",
			Name: "Missing ID",
		},
	}
}

func newLoadedService(t *testing.T) *CatalogService {
	t.Helper()
	svc := NewCatalogService(&stubCatalogRepo{raws: sampleRaws()}, DefaultConfig())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc
}

func TestLoadSkipsInvalidAndDuplicateIDs(t *testing.T) {
	svc := newLoadedService(t)

	if svc.Len() != 2 {
		t.Fatalf("expected 2 products, got %d", svc.Len())
	}

	p, err := svc.Get("B01AAA0001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Title != "Blue Cotton Shirt" {
		t.Errorf("first occurrence of a duplicate id must win, got title %q", p.Title)
	}
}

func TestLoadNormalizesOptions(t *testing.T) {
	svc := newLoadedService(t)

	p, err := svc.Get("B01AAA0001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	colors, ok := p.Options["color"]
	if !ok {
		t.Fatalf("option names must be lower-cased, have %v", p.Options)
	}
	if colors[0] != "navy | white" {
		t.Errorf("slash values must be rewritten, got %q", colors[0])
	}
	if colors[1] != "red" {
		t.Errorf("values must be trimmed and lower-cased, got %q", colors[1])
	}

	name, ok := p.OptionNameFor("NAVY | WHITE")
	if !ok || name != "color" {
		t.Errorf("OptionNameFor(NAVY | WHITE) = %q, %v", name, ok)
	}
}

func TestLoadAssignsDummyAttribute(t *testing.T) {
	svc := newLoadedService(t)

	p, err := svc.Get("B01AAA0002")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Attributes) != 1 || p.Attributes[0] != domain.DummyAttribute {
		t.Errorf("untagged products must carry the dummy attribute, got %v", p.Attributes)
	}
	if len(svc.AsinsByAttribute(domain.DummyAttribute)) != 0 {
		t.Error("dummy attribute must not be indexed")
	}
	if got := svc.AsinsByAttribute("cotton"); len(got) != 1 || got[0] != "B01AAA0001" {
		t.Errorf("AsinsByAttribute(cotton) = %v", got)
	}
}

func TestLoadPricing(t *testing.T) {
	svc := newLoadedService(t)

	shirt, _ := svc.Get("B01AAA0001")
	if shirt.Price != 19.99 {
		t.Errorf("single price must be used verbatim, got %v", shirt.Price)
	}
	if shirt.PriceTag != "$19.99" {
		t.Errorf("price tag = %q", shirt.PriceTag)
	}

	bottle, _ := svc.Get("B01AAA0002")
	if len(bottle.PriceRange) != 2 || bottle.PriceRange[0] != 12.00 || bottle.PriceRange[1] != 25.00 {
		t.Fatalf("range bounds must be sorted, got %v", bottle.PriceRange)
	}
	if bottle.Price < 12.00 || bottle.Price > 25.00 {
		t.Errorf("drawn price %v outside range", bottle.Price)
	}
	if bottle.PriceTag != "$12.00 to $25.00" {
		t.Errorf("price tag = %q", bottle.PriceTag)
	}
}

func TestLoadPriceDrawIsDeterministic(t *testing.T) {
	a := newLoadedService(t)
	b := newLoadedService(t)

	pa, _ := a.Get("B01AAA0002")
	pb, _ := b.Get("B01AAA0002")
	if math.Abs(pa.Price-pb.Price) > 1e-12 {
		t.Errorf("same seed must draw the same price: %v vs %v", pa.Price, pb.Price)
	}
}

func TestGetUnknownAsin(t *testing.T) {
	svc := newLoadedService(t)
	if _, err := svc.Get("B000000000"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestParsePricing(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantLen int
		wantTag string
	}{
		{"empty", "", 1, "$100.00"},
		{"single", "$10.99", 1, "$10.99"},
		{"range", "$10.99 to $22.50", 2, "$10.99 to $22.50"},
		{"unsorted range", "$22.50 - $10.99", 2, "$10.99 to $22.50"},
		{"garbage", "contact seller", 1, "$100.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prices, tag := ParsePricing(tc.raw, 100.0)
			if len(prices) != tc.wantLen {
				t.Fatalf("len(prices) = %d, want %d", len(prices), tc.wantLen)
			}
			if tag != tc.wantTag {
				t.Errorf("tag = %q, want %q", tag, tc.wantTag)
			}
		})
	}
}

func TestLoadRespectsLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limit = 1
	svc := NewCatalogService(&stubCatalogRepo{raws: sampleRaws()}, cfg)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if svc.Len() != 1 {
		t.Errorf("limit 1 must keep a single product, got %d", svc.Len())
	}
}

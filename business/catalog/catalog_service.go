package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"shopsim/domain"
	"shopsim/pkg/logger"
)

// ---- Repository interfaces ----

type CatalogRepository interface {
	FetchAll(ctx context.Context) ([]domain.RawProduct, error)
}

// Config controls catalog ingestion.
type Config struct {
	// Limit caps the number of raw records considered; 0 or negative keeps all.
	Limit int
	// DefaultPrice is assigned when a record carries no parseable pricing.
	DefaultPrice float64
	// Seed drives the price draw for ranged prices, so a catalog loads
	// identically across restarts.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		Limit:        0,
		DefaultPrice: 100.0,
		Seed:         233,
	}
}

// ---- Usecase / Service ----

// CatalogService owns the normalized product set. Load runs once at startup;
// after that every accessor is read-only and safe for concurrent use.
type CatalogService struct {
	catalogRepo CatalogRepository
	cfg         Config

	products    []*domain.Product
	byAsin      map[string]*domain.Product
	attrToAsins map[string][]string
}

func NewCatalogService(catalogRepo CatalogRepository, cfg Config) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		cfg:         cfg,
	}
}

// Load fetches the raw catalog, normalizes each record and builds the
// attribute index. Records with a missing, "nan" or overlong id are skipped,
// and later duplicates of an id are dropped.
func (s *CatalogService) Load(ctx context.Context) error {
	raws, err := s.catalogRepo.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch raw catalog: %w", err)
	}

	if s.cfg.Limit > 0 && len(raws) > s.cfg.Limit {
		raws = raws[:s.cfg.Limit]
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))

	seen := make(map[string]bool, len(raws))
	products := make([]*domain.Product, 0, len(raws))
	attrToAsins := make(map[string][]string)
	skipped := 0

	for _, raw := range raws {
		if raw.Asin == "" || raw.Asin == "nan" || len(raw.Asin) > 10 {
			skipped++
			continue
		}
		if seen[raw.Asin] {
			skipped++
			continue
		}
		seen[raw.Asin] = true

		p := normalize(raw, s.cfg.DefaultPrice, rng)
		products = append(products, p)

		for _, attr := range p.Attributes {
			if attr == domain.DummyAttribute {
				continue
			}
			attrToAsins[attr] = append(attrToAsins[attr], p.Asin)
		}
	}

	byAsin := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byAsin[p.Asin] = p
	}

	s.products = products
	s.byAsin = byAsin
	s.attrToAsins = attrToAsins

	logger.Info("catalog loaded", "products", len(products), "skipped", skipped, "attributes", len(attrToAsins))
	return nil
}

// normalize maps one raw record into the immutable catalog entry. The price is
// drawn once here; sessions never re-roll it.
func normalize(raw domain.RawProduct, defaultPrice float64, rng *rand.Rand) *domain.Product {
	priceRange, priceTag := ParsePricing(raw.Pricing, defaultPrice)

	price := priceRange[0]
	if len(priceRange) >= 2 {
		price = priceRange[0] + rng.Float64()*(priceRange[1]-priceRange[0])
	}

	options := make(map[string][]string, len(raw.CustomizationOptions))
	for name, values := range raw.CustomizationOptions {
		cleaned := make([]string, 0, len(values))
		for _, v := range values {
			v = normalizeOptionValue(v)
			if v != "" {
				cleaned = append(cleaned, v)
			}
		}
		if len(cleaned) > 0 {
			options[strings.ToLower(strings.TrimSpace(name))] = cleaned
		}
	}

	attrs := raw.Attributes
	if len(attrs) == 0 {
		attrs = []string{domain.DummyAttribute}
	}

	return &domain.Product{
		Asin:                  raw.Asin,
		Title:                 raw.Name,
		Description:           raw.FullDescription,
		BulletPoints:          []string(raw.SmallDescription),
		Category:              raw.Category,
		Query:                 strings.ToLower(strings.TrimSpace(raw.Query)),
		ProductCategory:       raw.ProductCategory,
		PriceRange:            priceRange,
		Price:                 price,
		PriceTag:              priceTag,
		Options:               options,
		Attributes:            attrs,
		InstructionText:       raw.InstructionText,
		InstructionAttributes: raw.InstructionAttributes,
		Instructions:          raw.Instructions,
	}
}

// normalizeOptionValue lower-cases an option value and rewrites slashes so the
// value never collides with click-target parsing.
func normalizeOptionValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "/", " | ")
	v = strings.Join(strings.Fields(v), " ")
	return strings.ToLower(v)
}

// Products returns every catalog entry in load order.
func (s *CatalogService) Products() []*domain.Product {
	return s.products
}

func (s *CatalogService) Len() int {
	return len(s.products)
}

// Get returns the catalog entry for an id, matching case-insensitively the way
// click targets arrive.
func (s *CatalogService) Get(asin string) (*domain.Product, error) {
	if p, ok := s.byAsin[asin]; ok {
		return p, nil
	}
	upper := strings.ToUpper(asin)
	if p, ok := s.byAsin[upper]; ok {
		return p, nil
	}
	return nil, domain.ErrProductNotFound
}

// AsinsByAttribute returns the ids carrying a given attribute tag, in load order.
func (s *CatalogService) AsinsByAttribute(attr string) []string {
	return s.attrToAsins[attr]
}

// Attributes returns every indexed attribute tag, sorted.
func (s *CatalogService) Attributes() []string {
	out := make([]string, 0, len(s.attrToAsins))
	for attr := range s.attrToAsins {
		out = append(out, attr)
	}
	sort.Strings(out)
	return out
}

// ByCategory returns the catalog entries whose top-level category matches.
func (s *CatalogService) ByCategory(category string) []*domain.Product {
	var out []*domain.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// ByQuery returns the catalog entries sourced from a given query.
func (s *CatalogService) ByQuery(query string) []*domain.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []*domain.Product
	for _, p := range s.products {
		if p.Query == needle {
			out = append(out, p)
		}
	}
	return out
}

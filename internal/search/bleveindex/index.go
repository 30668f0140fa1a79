package bleveindex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopsim/domain"
	"shopsim/pkg/logger"

	"github.com/blevesearch/bleve/v2"
)

// indexDoc is the searchable projection of a product. Everything an agent
// might type keywords against goes in; prices and options stay out.
type indexDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Bullets     string `json:"bullets"`
	Attributes  string `json:"attributes"`
	Category    string `json:"category"`
	Query       string `json:"query"`
}

// Index is an in-memory full-text index over the loaded catalog. Built once
// at startup, read-only afterwards.
type Index struct {
	idx     bleve.Index
	timeout time.Duration
}

// New builds the index from the catalog. timeout bounds each search; zero
// disables the bound.
func New(products []*domain.Product, timeout time.Duration) (*Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, p := range products {
		doc := indexDoc{
			Title:       p.Title,
			Description: p.Description,
			Bullets:     strings.Join(p.BulletPoints, " "),
			Attributes:  strings.Join(p.Attributes, " "),
			Category:    p.Category,
			Query:       p.Query,
		}
		if err := batch.Index(p.Asin, doc); err != nil {
			return nil, fmt.Errorf("failed to index product %s: %w", p.Asin, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to commit index batch: %w", err)
	}

	logger.Info("search index built", "products", len(products))
	return &Index{idx: idx, timeout: timeout}, nil
}

// Search returns up to topN catalog ids ranked by relevance to the keywords.
func (i *Index) Search(ctx context.Context, keywords []string, topN int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	query := bleve.NewMatchQuery(strings.Join(keywords, " "))
	req := bleve.NewSearchRequestOptions(query, topN, 0, false)

	res, err := i.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	asins := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		asins = append(asins, hit.ID)
	}
	return asins, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.idx.Close()
}

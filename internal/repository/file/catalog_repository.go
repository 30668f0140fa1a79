package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"shopsim/domain"
)

// CatalogRepository reads the raw catalog from a JSON dump on disk. The dump
// is a single array of raw product records. No third-party format is involved;
// plain encoding/json is the whole story.
type CatalogRepository struct {
	path string
}

func NewCatalogRepository(path string) *CatalogRepository {
	return &CatalogRepository{
		path: path,
	}
}

func (r *CatalogRepository) FetchAll(ctx context.Context) ([]domain.RawProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	var products []domain.RawProduct
	if err := json.NewDecoder(f).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}

	return products, nil
}

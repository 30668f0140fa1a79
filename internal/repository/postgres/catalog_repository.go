package postgres

import (
	"context"
	"fmt"
	"shopsim/domain"

	"gorm.io/gorm"
)

// CatalogRepository reads the raw catalog out of the raw_products table.
type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

func (r *CatalogRepository) FetchAll(ctx context.Context) ([]domain.RawProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.RawProduct
	err := r.DB.WithContext(ctx).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch raw products: %w", err)
	}

	return products, nil
}

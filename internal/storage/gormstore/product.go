package gormstore

import (
	"context"
	"fmt"

	"gift-service/internal/model"

	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error, "")
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("product %d not found", id))
	}
	return &product, nil
}

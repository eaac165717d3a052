package gormstore

import (
	"context"

	"gift-service/internal/model"

	"gorm.io/gorm"
)

type wishRepository struct {
	db *gorm.DB
}

func (r *wishRepository) Create(ctx context.Context, wish *model.WishProduct) error {
	return translate(r.db.WithContext(ctx).Create(wish).Error, "")
}

func (r *wishRepository) FindAllByMemberID(ctx context.Context, memberID uint) ([]model.WishProduct, error) {
	var wishes []model.WishProduct
	if err := r.db.WithContext(ctx).Where("member_id = ?", memberID).Order("id").Find(&wishes).Error; err != nil {
		return nil, translate(err, "")
	}
	return wishes, nil
}

func (r *wishRepository) DeleteAllByMemberIDAndProductID(ctx context.Context, memberID, productID uint) error {
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND product_id = ?", memberID, productID).
		Delete(&model.WishProduct{}).Error
	return translate(err, "")
}

func (r *wishRepository) DeleteAllByMemberID(ctx context.Context, memberID uint) error {
	return translate(r.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&model.WishProduct{}).Error, "")
}

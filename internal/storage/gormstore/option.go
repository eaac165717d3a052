package gormstore

import (
	"context"
	"fmt"
	"time"

	"gift-service/internal/apperror"
	"gift-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type optionRepository struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func optionNotFound(id uint) string {
	return fmt.Sprintf("option %d not found", id)
}

func (r *optionRepository) Create(ctx context.Context, option *model.Option) error {
	return translate(r.db.WithContext(ctx).Create(option).Error, "")
}

func (r *optionRepository) FindByID(ctx context.Context, id uint) (*model.Option, error) {
	var option model.Option
	if err := r.db.WithContext(ctx).First(&option, id).Error; err != nil {
		return nil, translate(err, optionNotFound(id))
	}
	return &option, nil
}

func (r *optionRepository) FindAllByProductID(ctx context.Context, productID uint) ([]model.Option, error) {
	var options []model.Option
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&options).Error
	if err != nil {
		return nil, translate(err, "")
	}
	return options, nil
}

// FindByIDForUpdate must run inside WithinTx; the row lock is held until the
// transaction commits or rolls back.
func (r *optionRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Option, error) {
	db := r.db.WithContext(ctx)

	if r.lockTimeout > 0 {
		// SET does not accept bind parameters
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if err := db.Exec(stmt).Error; err != nil {
			return nil, translate(err, "")
		}
	}

	var option model.Option
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&option, id).Error
	if err != nil {
		return nil, translate(err, optionNotFound(id))
	}
	return &option, nil
}

func (r *optionRepository) SubtractQuantity(ctx context.Context, id uint, quantity int) (*model.Option, error) {
	option, err := r.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if quantity > option.Quantity {
		return nil, apperror.InsufficientInventory()
	}

	option.Quantity -= quantity
	if err := r.db.WithContext(ctx).Model(option).Update("quantity", option.Quantity).Error; err != nil {
		return nil, translate(err, "")
	}
	return option, nil
}

func (r *optionRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Option{}, id).Error, "")
}

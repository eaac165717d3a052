package gormstore

import (
	"context"
	"fmt"

	"gift-service/internal/model"
	"gift-service/internal/port"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, order *model.GiftOrder) error {
	return translate(r.db.WithContext(ctx).Create(order).Error, "")
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.GiftOrder, error) {
	var order model.GiftOrder
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("order %d not found", id))
	}
	return &order, nil
}

func (r *orderRepository) FindAllByMemberID(ctx context.Context, memberID uint, page port.Page) ([]model.GiftOrder, error) {
	var orders []model.GiftOrder
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: page.Direction != port.DirectionAsc}).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, "")
	}
	return orders, nil
}

func (r *orderRepository) DeleteByIDAndMemberID(ctx context.Context, id, memberID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND member_id = ?", id, memberID).Delete(&model.GiftOrder{})
	if result.Error != nil {
		return false, translate(result.Error, "")
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) DeleteAllByOptionID(ctx context.Context, optionID uint) ([]model.GiftOrder, error) {
	return r.deleteWhere(ctx, "option_id = ?", optionID)
}

func (r *orderRepository) DeleteAllByMemberID(ctx context.Context, memberID uint) ([]model.GiftOrder, error) {
	return r.deleteWhere(ctx, "member_id = ?", memberID)
}

// deleteWhere soft-deletes the matching orders and returns them. Callers hold
// the option or member row, so no matching order is inserted in between.
func (r *orderRepository) deleteWhere(ctx context.Context, query string, arg uint) ([]model.GiftOrder, error) {
	db := r.db.WithContext(ctx)

	var orders []model.GiftOrder
	if err := db.Where(query, arg).Find(&orders).Error; err != nil {
		return nil, translate(err, "")
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	if err := db.Where("id IN ?", ids).Delete(&model.GiftOrder{}).Error; err != nil {
		return nil, translate(err, "")
	}
	return orders, nil
}

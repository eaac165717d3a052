package gormstore

import (
	"context"

	"gift-service/internal/model"

	"gorm.io/gorm"
)

type pointRepository struct {
	db *gorm.DB
}

func (r *pointRepository) Create(ctx context.Context, point *model.MemberPoint) error {
	return translate(r.db.WithContext(ctx).Create(point).Error, "")
}

func (r *pointRepository) SumByMemberID(ctx context.Context, memberID uint) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&model.MemberPoint{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(point), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, translate(err, "")
	}
	return sum, nil
}

func (r *pointRepository) DeleteAllByMemberID(ctx context.Context, memberID uint) error {
	return translate(r.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&model.MemberPoint{}).Error, "")
}

package gormstore

import (
	"context"
	"fmt"

	"gift-service/internal/model"

	"gorm.io/gorm"
)

type memberRepository struct {
	db *gorm.DB
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	if member.Role == "" {
		member.Role = model.RoleMember
	}
	return translate(r.db.WithContext(ctx).Create(member).Error, "")
}

func (r *memberRepository) FindByID(ctx context.Context, id uint) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("member %d not found", id))
	}
	return &member, nil
}

func (r *memberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("member with email %s not found", email))
	}
	return &member, nil
}

func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, translate(err, "")
	}
	return count > 0, nil
}

func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Member{}, id).Error, "")
}

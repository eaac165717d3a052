package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gift-service/internal/model"

	"gorm.io/gorm"
)

type oauthTokenRepository struct {
	db *gorm.DB
}

func (r *oauthTokenRepository) FindByMemberIDAndType(ctx context.Context, memberID uint, oauthType string) (*model.OauthToken, error) {
	var token model.OauthToken
	err := r.db.WithContext(ctx).Where("member_id = ? AND oauth_type = ?", memberID, oauthType).First(&token).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("%s token of member %d not found", oauthType, memberID))
	}
	return &token, nil
}

func (r *oauthTokenRepository) Save(ctx context.Context, token *model.OauthToken) error {
	db := r.db.WithContext(ctx)

	var existing model.OauthToken
	err := db.Where("member_id = ? AND oauth_type = ?", token.MemberID, token.OauthType).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return translate(db.Create(token).Error, "")
	case err != nil:
		return translate(err, "")
	}

	token.ID = existing.ID
	token.CreatedAt = existing.CreatedAt
	return translate(db.Save(token).Error, "")
}

func (r *oauthTokenRepository) DeleteAllByMemberID(ctx context.Context, memberID uint) error {
	return translate(r.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&model.OauthToken{}).Error, "")
}

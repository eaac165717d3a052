package memstore

import (
	"context"
	"fmt"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
)

type oauthTokenRepository struct {
	s *session
}

func findToken(st *state, memberID uint, oauthType string) (model.OauthToken, bool) {
	for _, t := range st.tokens {
		if !t.DeletedAt.Valid && t.MemberID == memberID && t.OauthType == oauthType {
			return t, true
		}
	}
	return model.OauthToken{}, false
}

func (r *oauthTokenRepository) FindByMemberIDAndType(ctx context.Context, memberID uint, oauthType string) (*model.OauthToken, error) {
	var found *model.OauthToken
	r.s.read(func(st *state) {
		if t, ok := findToken(st, memberID, oauthType); ok {
			found = &t
		}
	})
	if found == nil {
		return nil, apperror.NotFound(fmt.Sprintf("%s token of member %d not found", oauthType, memberID))
	}
	return found, nil
}

func (r *oauthTokenRepository) Save(ctx context.Context, token *model.OauthToken) error {
	var existing model.OauthToken
	var found bool
	r.s.read(func(st *state) {
		existing, found = findToken(st, token.MemberID, token.OauthType)
	})

	now := r.s.now()
	if found {
		token.ID = existing.ID
		token.CreatedAt = existing.CreatedAt
	} else {
		token.ID = r.s.store.nextID()
		token.CreatedAt = now
	}
	token.UpdatedAt = now

	row := *token
	return r.s.write(write{apply: func(st *state) {
		st.tokens[row.ID] = row
	}})
}

func (r *oauthTokenRepository) DeleteAllByMemberID(ctx context.Context, memberID uint) error {
	at := r.s.now()
	return r.s.write(write{apply: func(st *state) {
		for id, t := range st.tokens {
			if !t.DeletedAt.Valid && t.MemberID == memberID {
				t.DeletedAt = softDeleted(at)
				st.tokens[id] = t
			}
		}
	}})
}

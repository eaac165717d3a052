package memstore

import (
	"context"
	"fmt"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
)

type memberRepository struct {
	s *session
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	if member.Role == "" {
		member.Role = model.RoleMember
	}
	member.ID = r.s.store.nextID()
	member.CreatedAt = r.s.now()
	member.UpdatedAt = member.CreatedAt

	row := *member
	return r.s.write(write{
		check: func(st *state) error {
			for _, m := range st.members {
				if !m.DeletedAt.Valid && m.Email == row.Email {
					return apperror.Conflict("resource already exists")
				}
			}
			return nil
		},
		apply: func(st *state) {
			st.members[row.ID] = row
		},
	})
}

func (r *memberRepository) FindByID(ctx context.Context, id uint) (*model.Member, error) {
	var found *model.Member
	r.s.read(func(st *state) {
		if m, ok := st.members[id]; ok && !m.DeletedAt.Valid {
			found = &m
		}
	})
	if found == nil {
		return nil, apperror.NotFound(fmt.Sprintf("member %d not found", id))
	}
	return found, nil
}

func (r *memberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	var found *model.Member
	r.s.read(func(st *state) {
		for _, m := range st.members {
			if !m.DeletedAt.Valid && m.Email == email {
				m := m
				found = &m
				return
			}
		}
	})
	if found == nil {
		return nil, apperror.NotFound(fmt.Sprintf("member with email %s not found", email))
	}
	return found, nil
}

func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if apperror.IsKind(err, apperror.KindNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *memberRepository) Delete(ctx context.Context, id uint) error {
	at := r.s.now()
	return r.s.write(write{apply: func(st *state) {
		if m, ok := st.members[id]; ok && !m.DeletedAt.Valid {
			m.DeletedAt = softDeleted(at)
			st.members[id] = m
		}
	}})
}

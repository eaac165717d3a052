package memstore

import (
	"context"

	"gift-service/internal/model"
)

type pointRepository struct {
	s *session
}

func (r *pointRepository) Create(ctx context.Context, point *model.MemberPoint) error {
	point.ID = r.s.store.nextID()
	point.CreatedAt = r.s.now()
	point.UpdatedAt = point.CreatedAt

	row := *point
	return r.s.write(write{apply: func(st *state) {
		st.points[row.ID] = row
	}})
}

func (r *pointRepository) SumByMemberID(ctx context.Context, memberID uint) (int, error) {
	sum := 0
	r.s.read(func(st *state) {
		for _, p := range st.points {
			if !p.DeletedAt.Valid && p.MemberID == memberID {
				sum += p.Point
			}
		}
	})
	return sum, nil
}

func (r *pointRepository) DeleteAllByMemberID(ctx context.Context, memberID uint) error {
	at := r.s.now()
	return r.s.write(write{apply: func(st *state) {
		for id, p := range st.points {
			if !p.DeletedAt.Valid && p.MemberID == memberID {
				p.DeletedAt = softDeleted(at)
				st.points[id] = p
			}
		}
	}})
}

package memstore

import (
	"context"
	"sort"

	"gift-service/internal/model"
)

type wishRepository struct {
	s *session
}

func (r *wishRepository) Create(ctx context.Context, wish *model.WishProduct) error {
	wish.ID = r.s.store.nextID()
	wish.CreatedAt = r.s.now()
	wish.UpdatedAt = wish.CreatedAt

	row := *wish
	return r.s.write(write{apply: func(st *state) {
		st.wishes[row.ID] = row
	}})
}

func (r *wishRepository) FindAllByMemberID(ctx context.Context, memberID uint) ([]model.WishProduct, error) {
	var wishes []model.WishProduct
	r.s.read(func(st *state) {
		for _, w := range st.wishes {
			if !w.DeletedAt.Valid && w.MemberID == memberID {
				wishes = append(wishes, w)
			}
		}
	})
	sort.Slice(wishes, func(i, j int) bool { return wishes[i].ID < wishes[j].ID })
	return wishes, nil
}

func (r *wishRepository) DeleteAllByMemberIDAndProductID(ctx context.Context, memberID, productID uint) error {
	return r.deleteWhere(func(w model.WishProduct) bool {
		return w.MemberID == memberID && w.ProductID == productID
	})
}

func (r *wishRepository) DeleteAllByMemberID(ctx context.Context, memberID uint) error {
	return r.deleteWhere(func(w model.WishProduct) bool { return w.MemberID == memberID })
}

func (r *wishRepository) deleteWhere(match func(model.WishProduct) bool) error {
	at := r.s.now()
	return r.s.write(write{apply: func(st *state) {
		for id, w := range st.wishes {
			if !w.DeletedAt.Valid && match(w) {
				w.DeletedAt = softDeleted(at)
				st.wishes[id] = w
			}
		}
	}})
}

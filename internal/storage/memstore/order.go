package memstore

import (
	"context"
	"fmt"
	"sort"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
	"gift-service/internal/port"
)

type orderRepository struct {
	s *session
}

func (r *orderRepository) Create(ctx context.Context, order *model.GiftOrder) error {
	order.ID = r.s.store.nextID()
	order.CreatedAt = r.s.now()
	order.UpdatedAt = order.CreatedAt

	row := *order
	return r.s.write(write{apply: func(st *state) {
		st.orders[row.ID] = row
	}})
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.GiftOrder, error) {
	var found *model.GiftOrder
	r.s.read(func(st *state) {
		if o, ok := st.orders[id]; ok && !o.DeletedAt.Valid {
			found = &o
		}
	})
	if found == nil {
		return nil, apperror.NotFound(fmt.Sprintf("order %d not found", id))
	}
	return found, nil
}

func (r *orderRepository) FindAllByMemberID(ctx context.Context, memberID uint, page port.Page) ([]model.GiftOrder, error) {
	var orders []model.GiftOrder
	r.s.read(func(st *state) {
		for _, o := range st.orders {
			if !o.DeletedAt.Valid && o.MemberID == memberID {
				orders = append(orders, o)
			}
		}
	})

	asc := page.Direction == port.DirectionAsc
	sort.Slice(orders, func(i, j int) bool {
		if asc {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].ID > orders[j].ID
	})

	start := page.Offset()
	if start >= len(orders) {
		return []model.GiftOrder{}, nil
	}
	end := start + page.Size
	if page.Size <= 0 || end > len(orders) {
		end = len(orders)
	}
	return orders[start:end], nil
}

func (r *orderRepository) DeleteByIDAndMemberID(ctx context.Context, id, memberID uint) (bool, error) {
	var exists bool
	r.s.read(func(st *state) {
		o, ok := st.orders[id]
		exists = ok && !o.DeletedAt.Valid && o.MemberID == memberID
	})
	if !exists {
		return false, nil
	}

	at := r.s.now()
	err := r.s.write(write{apply: func(st *state) {
		if o, ok := st.orders[id]; ok && !o.DeletedAt.Valid && o.MemberID == memberID {
			o.DeletedAt = softDeleted(at)
			st.orders[id] = o
		}
	}})
	return err == nil, err
}

func (r *orderRepository) DeleteAllByOptionID(ctx context.Context, optionID uint) ([]model.GiftOrder, error) {
	return r.deleteWhere(func(o model.GiftOrder) bool { return o.OptionID == optionID })
}

func (r *orderRepository) DeleteAllByMemberID(ctx context.Context, memberID uint) ([]model.GiftOrder, error) {
	return r.deleteWhere(func(o model.GiftOrder) bool { return o.MemberID == memberID })
}

// deleteWhere stages a soft delete of the matching orders and returns the
// active ones it will delete, in id order.
func (r *orderRepository) deleteWhere(match func(model.GiftOrder) bool) ([]model.GiftOrder, error) {
	var orders []model.GiftOrder
	r.s.read(func(st *state) {
		for _, o := range st.orders {
			if !o.DeletedAt.Valid && match(o) {
				orders = append(orders, o)
			}
		}
	})
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	at := r.s.now()
	err := r.s.write(write{apply: func(st *state) {
		for id, o := range st.orders {
			if !o.DeletedAt.Valid && match(o) {
				o.DeletedAt = softDeleted(at)
				st.orders[id] = o
			}
		}
	}})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

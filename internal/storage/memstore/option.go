package memstore

import (
	"context"
	"fmt"
	"sort"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
)

type optionRepository struct {
	s *session
}

func optionNotFound(id uint) error {
	return apperror.NotFound(fmt.Sprintf("option %d not found", id))
}

func (r *optionRepository) Create(ctx context.Context, option *model.Option) error {
	option.ID = r.s.store.nextID()
	option.CreatedAt = r.s.now()
	option.UpdatedAt = option.CreatedAt

	row := *option
	return r.s.write(write{apply: func(st *state) {
		st.options[row.ID] = row
	}})
}

func (r *optionRepository) FindByID(ctx context.Context, id uint) (*model.Option, error) {
	if r.s.tx != nil {
		if o, ok := r.s.tx.options[id]; ok {
			return &o, nil
		}
	}

	var found *model.Option
	r.s.read(func(st *state) {
		if o, ok := st.options[id]; ok && !o.DeletedAt.Valid {
			found = &o
		}
	})
	if found == nil {
		return nil, optionNotFound(id)
	}
	return found, nil
}

func (r *optionRepository) FindAllByProductID(ctx context.Context, productID uint) ([]model.Option, error) {
	var options []model.Option
	r.s.read(func(st *state) {
		for _, o := range st.options {
			if !o.DeletedAt.Valid && o.ProductID == productID {
				options = append(options, o)
			}
		}
	})
	sort.Slice(options, func(i, j int) bool { return options[i].ID < options[j].ID })
	return options, nil
}

func (r *optionRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Option, error) {
	if r.s.tx == nil {
		// Outside a transaction the lock would be released immediately
		return r.FindByID(ctx, id)
	}
	option, err := r.lock(ctx, r.s.tx, id)
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// lock acquires the option for tx, reusing a lock tx already holds
func (r *optionRepository) lock(ctx context.Context, tx *transaction, id uint) (model.Option, error) {
	if option, held := tx.options[id]; held {
		return option, nil
	}

	if err := r.s.store.locks.acquire(ctx, id, r.s.store.lockTimeout); err != nil {
		return model.Option{}, err
	}

	var option model.Option
	var found bool
	r.s.read(func(st *state) {
		option, found = st.options[id]
	})
	if !found || option.DeletedAt.Valid {
		r.s.store.locks.release(id)
		return model.Option{}, optionNotFound(id)
	}
	tx.options[id] = option
	return option, nil
}

func (r *optionRepository) SubtractQuantity(ctx context.Context, id uint, quantity int) (*model.Option, error) {
	tx := r.s.tx
	if tx == nil {
		// Outside a transaction the lock covers this call only
		tx = newTransaction()
		defer tx.release(r.s.store.locks)
	}

	option, err := r.lock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if quantity > option.Quantity {
		return nil, apperror.InsufficientInventory()
	}

	option.Quantity -= quantity
	option.UpdatedAt = r.s.now()
	tx.options[id] = option

	row := option
	w := write{apply: func(st *state) {
		if o, ok := st.options[id]; ok {
			o.Quantity = row.Quantity
			o.UpdatedAt = row.UpdatedAt
			st.options[id] = o
		}
	}}
	if r.s.tx != nil {
		r.s.tx.writes = append(r.s.tx.writes, w)
	} else if err := r.s.store.commit([]write{w}); err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *optionRepository) Delete(ctx context.Context, id uint) error {
	at := r.s.now()
	return r.s.write(write{apply: func(st *state) {
		if o, ok := st.options[id]; ok && !o.DeletedAt.Valid {
			o.DeletedAt = softDeleted(at)
			st.options[id] = o
		}
	}})
}

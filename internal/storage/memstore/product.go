package memstore

import (
	"context"
	"fmt"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
)

type productRepository struct {
	s *session
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	product.ID = r.s.store.nextID()
	product.CreatedAt = r.s.now()
	product.UpdatedAt = product.CreatedAt

	row := *product
	return r.s.write(write{apply: func(st *state) {
		st.products[row.ID] = row
	}})
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var found *model.Product
	r.s.read(func(st *state) {
		if p, ok := st.products[id]; ok && !p.DeletedAt.Valid {
			found = &p
		}
	})
	if found == nil {
		return nil, apperror.NotFound(fmt.Sprintf("product %d not found", id))
	}
	return found, nil
}

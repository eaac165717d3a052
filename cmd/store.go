package main

import (
	"context"
	"fmt"

	"gift-service/internal/model"
	"gift-service/internal/port"
	"gift-service/internal/storage/gormstore"
	"gift-service/internal/storage/memstore"
	"gift-service/pkg/config"
	"gift-service/pkg/database"

	"go.uber.org/zap"
)

// openStore builds the configured storage driver and returns its cleanup func
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (port.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memstore.New(cfg.DB.LockTimeout)
		if err := seedCatalog(ctx, store); err != nil {
			return nil, nil, err
		}
		log.Info("Using in-memory storage with demo catalog")
		return store, func() {}, nil
	default:
		db, err := database.InitDB(&cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Database connection established")
		return gormstore.New(db, cfg.DB.LockTimeout), func() {
			if err := database.Close(db); err != nil {
				log.Error("Failed to close database", zap.Error(err))
			}
		}, nil
	}
}

// seedCatalog gives the in-memory driver something to order
func seedCatalog(ctx context.Context, store port.Store) error {
	return store.WithinTx(ctx, func(ctx context.Context, tx port.Repositories) error {
		products := []struct {
			name    string
			price   int
			options map[string]int
		}{
			{"Americano", 4500, map[string]int{"Tall": 100, "Grande": 50}},
			{"Chocolate Cake", 32000, map[string]int{"Whole": 10}},
		}
		for _, p := range products {
			product := &model.Product{Name: p.name, Price: p.price}
			if err := tx.Products().Create(ctx, product); err != nil {
				return fmt.Errorf("seed product %s: %w", p.name, err)
			}
			for name, quantity := range p.options {
				option := &model.Option{ProductID: product.ID, Name: name, Quantity: quantity}
				if err := tx.Options().Create(ctx, option); err != nil {
					return fmt.Errorf("seed option %s: %w", name, err)
				}
			}
		}
		return nil
	})
}

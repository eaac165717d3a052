package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gift-service/internal/apperror"
	"gift-service/internal/port"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes treated as a retryable busy signal
const (
	pgLockNotAvailable    = "55P03"
	pgDeadlockDetected    = "40P01"
	pgQueryCanceled       = "57014"
	pgUniqueViolation     = "23505"
	pgSerializationFailed = "40001"
)

// Store is the Postgres implementation of port.Store
type Store struct {
	repositories
}

type repositories struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// New creates a store on db. lockTimeout bounds waits for option row locks; zero leaves the server default.
func New(db *gorm.DB, lockTimeout time.Duration) *Store {
	return &Store{repositories{db: db, lockTimeout: lockTimeout}}
}

// WithinTx runs fn inside a database transaction
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &repositories{db: tx, lockTimeout: s.lockTimeout})
	})
	return translate(err, "")
}

func (r *repositories) Members() port.MemberRepository {
	return &memberRepository{db: r.db}
}

func (r *repositories) Products() port.ProductRepository {
	return &productRepository{db: r.db}
}

func (r *repositories) Options() port.OptionRepository {
	return &optionRepository{db: r.db, lockTimeout: r.lockTimeout}
}

func (r *repositories) Orders() port.OrderRepository {
	return &orderRepository{db: r.db}
}

func (r *repositories) Wishes() port.WishRepository {
	return &wishRepository{db: r.db}
}

func (r *repositories) Points() port.PointRepository {
	return &pointRepository{db: r.db}
}

func (r *repositories) OauthTokens() port.OauthTokenRepository {
	return &oauthTokenRepository{db: r.db}
}

// translate maps driver errors onto application errors. Errors that are
// already application errors pass through untouched.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected, pgQueryCanceled, pgSerializationFailed:
			return apperror.Busy("resource is busy, retry later", err)
		case pgUniqueViolation:
			return apperror.Conflict("resource already exists")
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.Busy("request was cancelled before completion", err)
	}

	return fmt.Errorf("database error: %w", err)
}

package memstore

import (
	"context"
	"sync"
	"time"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
	"gift-service/internal/port"

	"gorm.io/gorm"
)

// state is the committed data set. Soft-deleted rows stay in the maps with DeletedAt set.
type state struct {
	members  map[uint]model.Member
	products map[uint]model.Product
	options  map[uint]model.Option
	orders   map[uint]model.GiftOrder
	wishes   map[uint]model.WishProduct
	points   map[uint]model.MemberPoint
	tokens   map[uint]model.OauthToken
}

// write is one staged change. check runs for every write of a transaction
// before any apply, so a failed check leaves the state untouched.
type write struct {
	check func(st *state) error
	apply func(st *state)
}

// Store is an in-process implementation of port.Store. Writes made inside
// WithinTx are staged and become visible to other callers only on commit.
// Reads see committed state, except options locked by the same transaction.
type Store struct {
	mu    sync.RWMutex
	data  *state
	seq   uint
	locks *keyedLock
	now   func() time.Time

	lockTimeout time.Duration
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store. lockTimeout bounds waits for an option lock; zero waits until ctx is done.
func New(lockTimeout time.Duration, opts ...Option) *Store {
	s := &Store{
		data: &state{
			members:  make(map[uint]model.Member),
			products: make(map[uint]model.Product),
			options:  make(map[uint]model.Option),
			orders:   make(map[uint]model.GiftOrder),
			wishes:   make(map[uint]model.WishProduct),
			points:   make(map[uint]model.MemberPoint),
			tokens:   make(map[uint]model.OauthToken),
		},
		locks:       newKeyedLock(),
		now:         time.Now,
		lockTimeout: lockTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) autocommit() *session {
	return &session{store: s}
}

func (s *Store) Members() port.MemberRepository         { return s.autocommit().Members() }
func (s *Store) Products() port.ProductRepository       { return s.autocommit().Products() }
func (s *Store) Options() port.OptionRepository         { return s.autocommit().Options() }
func (s *Store) Orders() port.OrderRepository           { return s.autocommit().Orders() }
func (s *Store) Wishes() port.WishRepository            { return s.autocommit().Wishes() }
func (s *Store) Points() port.PointRepository           { return s.autocommit().Points() }
func (s *Store) OauthTokens() port.OauthTokenRepository { return s.autocommit().OauthTokens() }

// WithinTx runs fn and commits its staged writes when fn succeeds and ctx is
// still live. Option locks taken by fn are released after commit or rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx port.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return apperror.Busy("request was cancelled before completion", err)
	}

	tx := newTransaction()
	defer tx.release(s.locks)

	if err := fn(ctx, &session{store: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperror.Busy("request was cancelled before completion", err)
	}
	return s.commit(tx.writes)
}

func (s *Store) commit(writes []write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if w.check == nil {
			continue
		}
		if err := w.check(s.data); err != nil {
			return err
		}
	}
	for _, w := range writes {
		w.apply(s.data)
	}
	return nil
}

func (s *Store) nextID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

type transaction struct {
	writes []write
	// options holds this transaction's view of every option it has locked
	options map[uint]model.Option
}

func newTransaction() *transaction {
	return &transaction{options: make(map[uint]model.Option)}
}

func (t *transaction) release(locks *keyedLock) {
	for id := range t.options {
		locks.release(id)
	}
}

// session binds repositories either to a transaction or to autocommit mode
type session struct {
	store *Store
	tx    *transaction
}

func (s *session) Members() port.MemberRepository         { return &memberRepository{s} }
func (s *session) Products() port.ProductRepository       { return &productRepository{s} }
func (s *session) Options() port.OptionRepository         { return &optionRepository{s} }
func (s *session) Orders() port.OrderRepository           { return &orderRepository{s} }
func (s *session) Wishes() port.WishRepository            { return &wishRepository{s} }
func (s *session) Points() port.PointRepository           { return &pointRepository{s} }
func (s *session) OauthTokens() port.OauthTokenRepository { return &oauthTokenRepository{s} }

func (s *session) read(fn func(st *state)) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	fn(s.store.data)
}

func (s *session) write(w write) error {
	if s.tx != nil {
		s.tx.writes = append(s.tx.writes, w)
		return nil
	}
	return s.store.commit([]write{w})
}

func (s *session) now() time.Time {
	return s.store.now()
}

func softDeleted(at time.Time) gorm.DeletedAt {
	return gorm.DeletedAt{Time: at, Valid: true}
}

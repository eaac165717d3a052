package port

import (
	"context"

	"gift-service/internal/model"
)

// Sort directions
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Page selects a window of a listing ordered by id
type Page struct {
	Page      int
	Size      int
	Direction string
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	return p.Page * p.Size
}

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id uint) (*model.Member, error)
	FindByEmail(ctx context.Context, email string) (*model.Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
}

type OptionRepository interface {
	Create(ctx context.Context, option *model.Option) error
	FindByID(ctx context.Context, id uint) (*model.Option, error)
	FindAllByProductID(ctx context.Context, productID uint) ([]model.Option, error)

	// FindByIDForUpdate locks the option exclusively until the surrounding
	// transaction ends and returns it unchanged.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Option, error)

	// SubtractQuantity takes the same lock, rejects quantities above the
	// remaining amount and returns the updated option.
	SubtractQuantity(ctx context.Context, id uint, quantity int) (*model.Option, error)

	Delete(ctx context.Context, id uint) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.GiftOrder) error
	FindByID(ctx context.Context, id uint) (*model.GiftOrder, error)
	FindAllByMemberID(ctx context.Context, memberID uint, page Page) ([]model.GiftOrder, error)
	// DeleteByIDAndMemberID reports whether an order was deleted
	DeleteByIDAndMemberID(ctx context.Context, id, memberID uint) (bool, error)
	// DeleteAllByOptionID and DeleteAllByMemberID return the orders they deleted
	DeleteAllByOptionID(ctx context.Context, optionID uint) ([]model.GiftOrder, error)
	DeleteAllByMemberID(ctx context.Context, memberID uint) ([]model.GiftOrder, error)
}

type WishRepository interface {
	Create(ctx context.Context, wish *model.WishProduct) error
	FindAllByMemberID(ctx context.Context, memberID uint) ([]model.WishProduct, error)
	DeleteAllByMemberIDAndProductID(ctx context.Context, memberID, productID uint) error
	DeleteAllByMemberID(ctx context.Context, memberID uint) error
}

type PointRepository interface {
	Create(ctx context.Context, point *model.MemberPoint) error
	SumByMemberID(ctx context.Context, memberID uint) (int, error)
	DeleteAllByMemberID(ctx context.Context, memberID uint) error
}

type OauthTokenRepository interface {
	FindByMemberIDAndType(ctx context.Context, memberID uint, oauthType string) (*model.OauthToken, error)
	// Save inserts the token or updates the existing token of the same member and type
	Save(ctx context.Context, token *model.OauthToken) error
	DeleteAllByMemberID(ctx context.Context, memberID uint) error
}

// Repositories groups the repositories bound to one unit of work
type Repositories interface {
	Members() MemberRepository
	Products() ProductRepository
	Options() OptionRepository
	Orders() OrderRepository
	Wishes() WishRepository
	Points() PointRepository
	OauthTokens() OauthTokenRepository
}

// Store gives access to repositories outside and inside transactions
type Store interface {
	Repositories

	// WithinTx runs fn in one transaction. A non-nil error from fn, a panic or a
	// cancelled ctx rolls back every write made through tx.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}

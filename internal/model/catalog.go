package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products in the catalog
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Color       string         `json:"color" gorm:"type:varchar(20)"`
	ImageURL    string         `json:"image_url" gorm:"type:varchar(255)"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// Product is a catalog item that members order through its options
type Product struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"type:varchar(100);not null"`
	Price      int            `json:"price" gorm:"not null"`
	ImageURL   string         `json:"image_url" gorm:"type:varchar(255)"`
	CategoryID uint           `json:"category_id" gorm:"index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// Option is a purchasable variant of a product with a limited remaining quantity.
// Quantity is only changed through the inventory ledger.
type Option struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ProductID uint           `json:"product_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Quantity  int            `json:"quantity" gorm:"not null;check:quantity >= 0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// WishProduct is a wishlist entry of a member
type WishProduct struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	MemberID  uint           `json:"member_id" gorm:"index;not null"`
	ProductID uint           `json:"product_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

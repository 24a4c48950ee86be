package models

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product represents an inventory record.
// Records created through the API carry a quantity; records imported from
// the external catalog carry category, description and image instead.
type Product struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Quantity    *int
	Price       decimal.Decimal `gorm:"type:numeric;not null"`
	Category    string          `gorm:"not null"`
	Description string          `gorm:"not null"`
	Image       string          `gorm:"not null"`
}

func (p *Product) TableName() string {
	return "products"
}

// ProductUpdate lists the fields to overwrite on a record. Nil fields are left untouched.
type ProductUpdate struct {
	Name     *string
	Quantity *int
	Price    *decimal.Decimal
}

// Apply copies the non-nil fields of u onto p.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Quantity != nil {
		q := *u.Quantity
		p.Quantity = &q
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
}

// IsEmpty reports whether the update carries no fields.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Quantity == nil && u.Price == nil
}

// Store is the record table holding products.
//
// Put and UpdateFields are upserts. Delete of a missing id is not an error.
// Get returns ErrProductNotFound when no record has the given id.
type Store interface {
	Put(ctx context.Context, p *Product) error
	Scan(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	UpdateFields(ctx context.Context, id string, u ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id string) error
}

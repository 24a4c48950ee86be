package models

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductsRepository is the Postgres-backed Store.
type ProductsRepository struct {
	db *gorm.DB
}

var _ Store = (*ProductsRepository)(nil)

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// Put inserts the product or replaces every column of an existing row.
func (r *ProductsRepository) Put(ctx context.Context, p *Product) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(p).Error; err != nil {
		return errors.Wrap(err, "put product")
	}
	return nil
}

func (r *ProductsRepository) Scan(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "scan products")
	}
	return products, nil
}

func (r *ProductsRepository) Get(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "get product") // Other DB error
	}
	return &product, nil
}

// UpdateFields writes only the columns present in u, creating the row when
// it does not exist yet, and returns the row as stored afterwards.
func (r *ProductsRepository) UpdateFields(ctx context.Context, id string, u ProductUpdate) (*Product, error) {
	if u.IsEmpty() {
		return r.Get(ctx, id)
	}

	var columns []string
	if u.Name != nil {
		columns = append(columns, "name")
	}
	if u.Quantity != nil {
		columns = append(columns, "quantity")
	}
	if u.Price != nil {
		columns = append(columns, "price")
	}

	row := Product{ID: id}
	u.Apply(&row)

	if err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(columns),
			},
			clause.Returning{},
		).
		Create(&row).Error; err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	return &row, nil
}

func (r *ProductsRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&Product{}).Error; err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}

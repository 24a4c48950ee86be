// Package inventory implements product CRUD over the record store and the
// import of the external catalog into it.
package inventory

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/smartinventory/inventory-tracker/app/fakestore"
	"github.com/smartinventory/inventory-tracker/models"
)

// ErrValidation is returned when a create request lacks a required field.
var ErrValidation = errors.New("validation failed")

// Catalog is the source of external listings.
type Catalog interface {
	FetchAll(ctx context.Context) ([]fakestore.Item, error)
}

type Service struct {
	store   models.Store
	catalog Catalog
	log     *slog.Logger
}

func NewService(store models.Store, catalog Catalog, log *slog.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		log:     log,
	}
}

// CreateInput carries a store-authored product. Zero values count as missing.
type CreateInput struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (in CreateInput) Validate() error {
	if in.ID == "" || in.Name == "" || in.Quantity == 0 || in.Price.IsZero() {
		return errors.Wrap(ErrValidation, "all fields (id, name, quantity, price) are required")
	}
	if in.Quantity < 0 {
		return errors.Wrap(ErrValidation, "quantity must not be negative")
	}
	return nil
}

// UpdateInput replaces name, quantity and price of a record.
type UpdateInput struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (in UpdateInput) Validate() error {
	if in.Quantity < 0 {
		return errors.Wrap(ErrValidation, "quantity must not be negative")
	}
	return nil
}

// Snapshot pairs the stored records with the live catalog.
type Snapshot struct {
	Products []models.Product
	Catalog  []fakestore.Item
}

// Create writes a new record, replacing any record with the same id.
func (s *Service) Create(ctx context.Context, in CreateInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	qty := in.Quantity
	return s.store.Put(ctx, &models.Product{
		ID:       in.ID,
		Name:     in.Name,
		Quantity: &qty,
		Price:    in.Price,
	})
}

// ListAll returns every stored record in store order.
func (s *Service) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Update overwrites name, quantity and price. A missing id is not an error:
// the fields are stored as a new record.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	qty := in.Quantity
	return s.store.UpdateFields(ctx, id, models.ProductUpdate{
		Name:     &in.Name,
		Quantity: &qty,
		Price:    &in.Price,
	})
}

// Delete removes the record. Deleting a missing id succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Catalog returns the current external catalog.
func (s *Service) Catalog(ctx context.Context) ([]fakestore.Item, error) {
	return s.catalog.FetchAll(ctx)
}

// ImportCatalog writes every catalog item as a record, one put per item.
// The first failing put stops the import; earlier puts stay committed.
func (s *Service) ImportCatalog(ctx context.Context) (int, error) {
	items, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return 0, err
	}

	for i, item := range items {
		if err := s.store.Put(ctx, FromCatalog(item)); err != nil {
			s.log.Error("catalog_import_failed", "item_id", item.ID, "imported", i, "error", err)
			return i, errors.Wrapf(err, "import item %d", item.ID)
		}
	}
	s.log.Info("catalog_imported", "count", len(items))
	return len(items), nil
}

// Snapshot reads the stored records and the external catalog.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Products: products, Catalog: items}, nil
}

// FromCatalog maps a catalog listing onto a record keyed by the listing id.
func FromCatalog(item fakestore.Item) *models.Product {
	return &models.Product{
		ID:          item.RecordID(),
		Name:        item.Title,
		Price:       item.Price,
		Category:    item.Category,
		Description: item.Description,
		Image:       item.Image,
	}
}

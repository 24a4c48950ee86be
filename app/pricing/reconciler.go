// Package pricing keeps stored prices in line with the external catalog.
package pricing

import (
	"context"
	"log/slog"

	"github.com/go-faster/errors"

	"github.com/smartinventory/inventory-tracker/app/fakestore"
	"github.com/smartinventory/inventory-tracker/models"
)

type Catalog interface {
	FetchAll(ctx context.Context) ([]fakestore.Item, error)
}

// Runner runs one reconciliation pass.
type Runner interface {
	Run(ctx context.Context) (Report, error)
}

// Report counts what a pass did. Checked includes Updated and Skipped.
type Report struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type Reconciler struct {
	store   models.Store
	catalog Catalog
	log     *slog.Logger
}

var _ Runner = (*Reconciler)(nil)

func NewReconciler(store models.Store, catalog Catalog, log *slog.Logger) *Reconciler {
	return &Reconciler{
		store:   store,
		catalog: catalog,
		log:     log,
	}
}

// Run fetches the catalog and, item by item in listing order, overwrites the
// price of the matching stored record when it differs numerically. Items
// without a stored record are skipped. The first error ends the pass.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var report Report

	r.log.Info("price_check_started")
	items, err := r.catalog.FetchAll(ctx)
	if err != nil {
		return report, errors.Wrap(err, "fetch catalog")
	}

	for _, item := range items {
		id := item.RecordID()
		report.Checked++
		r.log.Debug("price_check_item", "id", id, "title", item.Title, "price", item.Price.String())

		current, err := r.store.Get(ctx, id)
		if errors.Is(err, models.ErrProductNotFound) {
			report.Skipped++
			continue
		}
		if err != nil {
			return report, errors.Wrapf(err, "look up product %s", id)
		}

		if current.Price.Equal(item.Price) {
			continue
		}

		r.log.Info("price_changed",
			"id", id,
			"name", item.Title,
			"old_price", current.Price.String(),
			"new_price", item.Price.String(),
		)
		price := item.Price
		if _, err := r.store.UpdateFields(ctx, id, models.ProductUpdate{Price: &price}); err != nil {
			return report, errors.Wrapf(err, "update price of product %s", id)
		}
		report.Updated++
	}

	r.log.Info("price_check_completed",
		"checked", report.Checked,
		"updated", report.Updated,
		"skipped", report.Skipped,
	)
	return report, nil
}

package pricing

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartinventory/inventory-tracker/app/fakestore"
	"github.com/smartinventory/inventory-tracker/app/storage/memory"
	"github.com/smartinventory/inventory-tracker/models"
)

// --- Fakes ---

type fakeCatalog struct {
	Items []fakestore.Item
	Err   error
}

func (f *fakeCatalog) FetchAll(context.Context) ([]fakestore.Item, error) {
	return f.Items, f.Err
}

// recordingStore counts calls and can fail lookups of one id.
type recordingStore struct {
	*memory.Store
	lookups []string
	updates []string
	failGet string
}

func (s *recordingStore) Get(ctx context.Context, id string) (*models.Product, error) {
	s.lookups = append(s.lookups, id)
	if id == s.failGet {
		return nil, errors.New("connection reset")
	}
	return s.Store.Get(ctx, id)
}

func (s *recordingStore) UpdateFields(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	s.updates = append(s.updates, id)
	return s.Store.UpdateFields(ctx, id, u)
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: memory.New()}
}

func item(id int64, price string) fakestore.Item {
	return fakestore.Item{ID: id, Title: "item", Price: decimal.RequireFromString(price)}
}

func newTestReconciler(store models.Store, catalog Catalog) *Reconciler {
	return NewReconciler(store, catalog, slog.New(slog.DiscardHandler))
}

// --- Tests ---

func TestRunUpdatesChangedPriceOnly(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	qty := 4
	require.NoError(t, store.Put(ctx, &models.Product{
		ID: "1", Name: "Backpack", Quantity: &qty, Price: decimal.NewFromInt(10),
		Category: "bags", Description: "a bag", Image: "https://img/1.jpg",
	}))

	report, err := newTestReconciler(store, &fakeCatalog{Items: []fakestore.Item{item(1, "12")}}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Checked: 1, Updated: 1}, report)

	got, err := store.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "12", got.Price.String())
	assert.Equal(t, "Backpack", got.Name)
	assert.Equal(t, 4, *got.Quantity)
	assert.Equal(t, "bags", got.Category)
	assert.Equal(t, "a bag", got.Description)
	assert.Equal(t, "https://img/1.jpg", got.Image)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	require.NoError(t, store.Put(ctx, &models.Product{ID: "1", Price: decimal.NewFromInt(10)}))
	r := newTestReconciler(store, &fakeCatalog{Items: []fakestore.Item{item(1, "12")}})

	_, err := r.Run(ctx)
	require.NoError(t, err)
	second, err := r.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, []string{"1"}, store.updates, "second pass writes nothing")
}

func TestRunSkipsUnknownProducts(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()

	report, err := newTestReconciler(store, &fakeCatalog{Items: []fakestore.Item{item(7, "3.5")}}).Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, Report{Checked: 1, Skipped: 1}, report)
	assert.Equal(t, 0, store.Len(), "no record is created")
	assert.Empty(t, store.updates)
}

func TestRunComparesNumerically(t *testing.T) {
	testCases := []struct {
		name        string
		stored      string
		external    string
		wantUpdated bool
	}{
		{name: "same value different scale", stored: "12", external: "12.00"},
		{name: "equal", stored: "22.3", external: "22.3"},
		{name: "tiny difference", stored: "12", external: "12.001", wantUpdated: true},
		{name: "price drop", stored: "109.95", external: "99.95", wantUpdated: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := newRecordingStore()
			require.NoError(t, store.Put(ctx, &models.Product{ID: "1", Price: decimal.RequireFromString(tc.stored)}))

			report, err := newTestReconciler(store, &fakeCatalog{Items: []fakestore.Item{item(1, tc.external)}}).Run(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.wantUpdated, report.Updated == 1)
		})
	}
}

func TestRunFollowsCatalogOrder(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	catalog := &fakeCatalog{Items: []fakestore.Item{item(3, "1"), item(1, "1"), item(2, "1")}}

	_, err := newTestReconciler(store, catalog).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2"}, store.lookups)
}

func TestRunAbortsOnCatalogError(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	require.NoError(t, store.Put(ctx, &models.Product{ID: "1", Price: decimal.NewFromInt(10)}))

	_, err := newTestReconciler(store, &fakeCatalog{Err: &fakestore.NetworkError{URL: "x", Status: 500}}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, fakestore.ErrCatalogUnavailable)
	assert.Empty(t, store.lookups)
}

func TestRunAbortsOnStoreError(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	store.failGet = "2"
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, store.Put(ctx, &models.Product{ID: id, Price: decimal.NewFromInt(10)}))
	}
	catalog := &fakeCatalog{Items: []fakestore.Item{item(1, "11"), item(2, "11"), item(3, "11")}}

	report, err := newTestReconciler(store, catalog).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "look up product 2")
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, []string{"1"}, store.updates, "items after the failure are not processed")

	untouched, _ := store.Store.Get(ctx, "3")
	assert.Equal(t, "10", untouched.Price.String())
}

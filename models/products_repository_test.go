package models

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder is a gorm logger that keeps every traced statement.
type sqlRecorder struct {
	mu    sync.Mutex
	stmts []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface      { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	r.stmts = append(r.stmts, sql)
	r.mu.Unlock()
}

func (r *sqlRecorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stmts) == 0 {
		return ""
	}
	return r.stmts[len(r.stmts)-1]
}

// newDryRunRepo builds a repository whose statements are rendered but never sent.
func newDryRunRepo(t *testing.T) (*ProductsRepository, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=inventory dbname=inventory sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	require.NoError(t, err)
	return NewProductsRepository(db), rec
}

func TestRepositoryPutUpserts(t *testing.T) {
	repo, rec := newDryRunRepo(t)
	qty := 3

	err := repo.Put(context.Background(), &Product{ID: "p1", Name: "Mug", Quantity: &qty, Price: decimal.NewFromInt(4)})
	require.NoError(t, err)

	sql := rec.last()
	assert.Contains(t, sql, `INSERT INTO "products"`)
	assert.Contains(t, sql, `ON CONFLICT ("id") DO UPDATE SET`)
	assert.Contains(t, sql, `"name"="excluded"."name"`)
}

func TestRepositoryUpdateFieldsOnlyTouchesGivenColumns(t *testing.T) {
	repo, rec := newDryRunRepo(t)
	price := decimal.NewFromInt(12)

	_, err := repo.UpdateFields(context.Background(), "1", ProductUpdate{Price: &price})
	require.NoError(t, err)

	sql := rec.last()
	assert.Contains(t, sql, `ON CONFLICT ("id") DO UPDATE SET "price"="excluded"."price"`)
	assert.NotContains(t, sql, `"name"="excluded"."name"`)
	assert.Contains(t, sql, "RETURNING")
}

func TestRepositoryDelete(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.Contains(t, rec.last(), `DELETE FROM "products" WHERE id = 'p1'`)
}

func TestRepositoryScan(t *testing.T) {
	repo, rec := newDryRunRepo(t)

	_, err := repo.Scan(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rec.last(), `SELECT * FROM "products"`)
}

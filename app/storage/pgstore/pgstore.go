// Package pgstore opens the Postgres-backed product store.
package pgstore

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"
	"time"

	"github.com/go-faster/errors"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartinventory/inventory-tracker/models"
)

//go:embed migrations/schema.sql
var schemaSQL string

// Database owns the gorm handle and its underlying pool.
type Database struct {
	DB *gorm.DB
}

// Open runs the schema migration and returns a connected Database.
func Open(ctx context.Context, dsn string) (*Database, error) {
	if err := Migrate(ctx, dsn); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres pool")
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &Database{DB: db}, nil
}

// Products returns the Store view of the database.
func (d *Database) Products() *models.ProductsRepository {
	return models.NewProductsRepository(d.DB)
}

// Close drains the connection pool.
func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate ensures the products table exists.
func Migrate(ctx context.Context, dsn string) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return errors.Wrap(err, "open migration connection")
	}
	defer conn.Close()

	for _, stmt := range statements(schemaSQL) {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}

func statements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

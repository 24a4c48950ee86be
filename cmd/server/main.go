// Package main boots the inventory tracker HTTP server and its price monitors.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/smartinventory/inventory-tracker/app/config"
	"github.com/smartinventory/inventory-tracker/app/events"
	"github.com/smartinventory/inventory-tracker/app/fakestore"
	"github.com/smartinventory/inventory-tracker/app/inventory"
	"github.com/smartinventory/inventory-tracker/app/logging"
	"github.com/smartinventory/inventory-tracker/app/pricing"
	"github.com/smartinventory/inventory-tracker/app/server"
	"github.com/smartinventory/inventory-tracker/app/storage/dynamostore"
	"github.com/smartinventory/inventory-tracker/app/storage/memory"
	"github.com/smartinventory/inventory-tracker/app/storage/mongostore"
	"github.com/smartinventory/inventory-tracker/app/storage/pgstore"
	"github.com/smartinventory/inventory-tracker/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel)
	log.Info("service_starting", "store", cfg.StoreDriver)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(rootCtx, cfg)
	if err != nil {
		log.Error("store_open_failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	catalog := fakestore.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	reconciler := pricing.NewReconciler(store, catalog, log)
	dispatcher := pricing.NewDispatcher(reconciler, log)

	products := inventory.NewProductHandler(inventory.NewService(store, catalog, log), log)
	prices := pricing.NewTriggerHandler(reconciler, log)

	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(products, prices, cfg.AllowedOrigins, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	var wg sync.WaitGroup
	if cfg.PriceCheckInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			events.NewScheduler(cfg.PriceCheckInterval, dispatcher, log).Run(rootCtx)
		}()
	}
	if cfg.AMQPURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumer := events.NewConsumer(cfg.AMQPURL, cfg.AMQPQueue, dispatcher, log)
			if err := consumer.Run(rootCtx); err != nil {
				log.Error("event_consumer_stopped", "error", err)
			}
		}()
	}

	go func() {
		log.Info("http_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_server_error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown_signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http_shutdown_error", "error", err)
	}
	wg.Wait()
	log.Info("service_stopped")
}

// openStore connects the configured record store and returns its closer.
func openStore(ctx context.Context, cfg config.Config) (models.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverDynamoDB:
		client, err := dynamostore.NewClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return dynamostore.New(client, cfg.DynamoTable), func() {}, nil
	case config.DriverPostgres:
		db, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db.Products(), func() { _ = db.Close() }, nil
	case config.DriverMongoDB:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		return mongostore.New(coll), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return memory.New(), func() {}, nil
	}
}

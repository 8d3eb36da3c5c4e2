// Command server runs the track-and-trace HTTP API.
//
// With DATABASE_URL set the server persists to Postgres, otherwise it runs on
// in-memory stores. REDIS_URL moves the verification scan history to Redis.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pharmatrace/internal/admin"
	adminhandler "pharmatrace/internal/admin/handler"
	"pharmatrace/internal/events"
	"pharmatrace/internal/jwttoken"
	"pharmatrace/internal/medicine"
	medicinehandler "pharmatrace/internal/medicine/handler"
	"pharmatrace/internal/payments"
	paymentshandler "pharmatrace/internal/payments/handler"
	"pharmatrace/internal/platform/config"
	"pharmatrace/internal/platform/httpserver"
	"pharmatrace/internal/platform/logger"
	"pharmatrace/internal/platform/metrics"
	platformredis "pharmatrace/internal/platform/redis"
	"pharmatrace/internal/sales"
	saleshandler "pharmatrace/internal/sales/handler"
	"pharmatrace/internal/shipment"
	shipmenthandler "pharmatrace/internal/shipment/handler"
	"pharmatrace/internal/store/memory"
	"pharmatrace/internal/store/postgres"
	"pharmatrace/internal/store/redisscan"
	httptransport "pharmatrace/internal/transport/http"
	"pharmatrace/internal/verification"
	verificationhandler "pharmatrace/internal/verification/handler"
)

type stores struct {
	packs     shipmentAndSalesPackStore
	scans     verification.PackStore
	shipments shipment.ShipmentStore
	ledger    ledgerStore
	medicines medicine.Store
}

// shipmentAndSalesPackStore is the union of the pack-store slices the
// services consume.
type shipmentAndSalesPackStore interface {
	shipment.PackStore
	verification.PackStore
}

type ledgerStore interface {
	payments.LedgerStore
	paymentshandler.LedgerStore
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.ParseLevel("info")).Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	m := metrics.New()

	st, health, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("init stores", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	bus := events.NewBus(events.WithLogger(log), events.WithMetrics(m))

	paySvc := payments.New(
		bus,
		payments.NewPerUnitPolicy(),
		st.ledger,
		st.shipments,
		st.packs,
		cfg.DeliveryUnitPriceCents,
		cfg.DefaultRetailPriceCents,
		payments.WithLogger(log),
		payments.WithMetrics(m),
	)
	defer paySvc.Close()

	shipSvc := shipment.New(st.packs, st.shipments, bus,
		shipment.WithLogger(log), shipment.WithMetrics(m))
	saleSvc := sales.New(st.packs, bus, paySvc,
		sales.WithLogger(log), sales.WithMetrics(m))
	verifySvc := verification.New(st.scans,
		verification.WithLogger(log), verification.WithMetrics(m))
	medSvc := medicine.New(st.medicines, st.shipments, medicine.WithLogger(log))

	tokens := jwttoken.New(cfg.JWTSigningKey, "pharmatrace")
	adminSvc := admin.New(cfg.AdminPINHash, tokens, cfg.AdminTokenTTL, log)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:  log,
		Metrics: m,
		Health:  health,
		Handlers: []httptransport.Registrar{
			shipmenthandler.New(shipSvc, log),
			saleshandler.New(saleSvc, log),
			verificationhandler.New(verifySvc, log),
			paymentshandler.New(st.ledger, log),
			medicinehandler.New(medSvc, tokens, log),
			adminhandler.New(adminSvc, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// buildStores picks the persistence backend and optionally moves scan
// history to Redis. The returned health func covers whatever backends are
// live, and cleanup releases them.
func buildStores(ctx context.Context, cfg config.Config) (stores, func() error, func(), error) {
	var st stores
	health := func() error { return nil }
	cleanup := func() {}

	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return st, nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return st, nil, nil, err
		}
		packs := postgres.NewPackStore(pool)
		st.packs = packs
		st.scans = packs
		st.shipments = postgres.NewShipmentStore(pool)
		st.ledger = postgres.NewLedgerStore(pool)
		st.medicines = postgres.NewMedicineStore(pool)
		health = func() error { return pool.Ping(context.Background()) }
		cleanup = pool.Close
	} else {
		packs := memory.NewPackStore()
		if cfg.SeedDemoData {
			if err := memory.SeedDemoData(ctx, packs); err != nil {
				return st, nil, nil, err
			}
		}
		st.packs = packs
		st.scans = packs
		st.shipments = memory.NewShipmentStore()
		st.ledger = memory.NewLedgerStore()
		st.medicines = memory.NewMedicineStore()
	}

	if cfg.RedisURL != "" {
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			cleanup()
			return st, nil, nil, err
		}
		st.scans = redisscan.New(st.scans, client.Client)
		baseHealth, baseCleanup := health, cleanup
		health = func() error {
			if err := baseHealth(); err != nil {
				return err
			}
			return client.Health(context.Background())
		}
		cleanup = func() {
			_ = client.Close()
			baseCleanup()
		}
	}
	return st, health, cleanup, nil
}

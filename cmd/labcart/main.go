package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/rahul4902/blood-sub001/internal/auth"
	"github.com/rahul4902/blood-sub001/internal/cart"
	"github.com/rahul4902/blood-sub001/internal/clients"
	"github.com/rahul4902/blood-sub001/internal/config"
	"github.com/rahul4902/blood-sub001/internal/events"
	httpapi "github.com/rahul4902/blood-sub001/internal/http"
	"github.com/rahul4902/blood-sub001/internal/logging"
	"github.com/rahul4902/blood-sub001/internal/navigation"
	"github.com/rahul4902/blood-sub001/internal/orders"
	"github.com/rahul4902/blood-sub001/internal/search"
	"github.com/rahul4902/blood-sub001/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}
	defer closeStore()

	clientID, err := storage.ClientID(ctx, store)
	if err != nil {
		logger.Fatal("client id", zap.Error(err))
	}
	logger = logger.With(zap.String("clientId", clientID))

	// --- Backend clients ---
	httpClient, err := clients.NewHTTPClient(cfg.UpstreamTimeout)
	if err != nil {
		logger.Fatal("http client", zap.Error(err))
	}
	backend := clients.NewClient("backend", cfg.BackendURL, httpClient)
	nav := navigation.NewRecorder()

	// --- Auth ---
	authMgr, err := auth.NewManager(auth.Options{
		Backend:          clients.NewAuthClient(backend),
		Storage:          store,
		Navigator:        nav,
		Logger:           logger,
		CheckInterval:    cfg.TokenCheckInterval,
		RefreshThreshold: cfg.TokenRefreshThreshold,
	})
	if err != nil {
		logger.Fatal("auth manager", zap.Error(err))
	}
	authMgr.Restore(ctx)
	authMgr.Start(ctx)
	defer authMgr.Close()

	// anonymous while logged out; a rejected token is refreshed once, then logged out
	authed := backend.WithTokens(authMgr)

	// --- Cart ---
	cartStore := cart.NewStore(cart.Options{
		Storage: store,
		Coupons: clients.NewCouponClient(authed),
		Logger:  logger,
	})
	go cartStore.Load(ctx)

	// --- Search ---
	suggester := search.NewSuggester(search.Options{
		Backend:       clients.NewSearchClient(backend),
		Navigator:     nav,
		Logger:        logger,
		Delay:         cfg.SearchDebounce,
		LimitTests:    cfg.SearchLimitTests,
		LimitPackages: cfg.SearchLimitPackages,
	})
	defer suggester.Close()
	go func() { _ = suggester.Mount(ctx) }()

	// --- Events ---
	publisher, closePublisher := openPublisher(cfg, store, logger)
	defer closePublisher()

	orderSvc := orders.NewService(orders.Options{
		Cart:      cartStore,
		Submitter: clients.NewOrderClient(authed),
		Publisher: publisher,
		Logger:    logger,
		CartID:    clientID,
		UserID: func() string {
			if u := authMgr.Session().User; u != nil {
				return u.ID
			}
			return ""
		},
	})

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:           logger,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Cart:             cartStore,
		Orders:           orderSvc,
		Auth:             authMgr,
		Search:           suggester,
		Catalog:          clients.NewCatalogClient(authed),
		Navigation:       nav,
		HealthProbes: []clients.HealthProbe{
			{Name: "backend", Client: backend, Path: "/health"},
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal")
	case err := <-errCh:
		logger.Error("http server", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func openStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		return storage.NewMemory(), func() {}, nil

	case "sqlite":
		db, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewSQLite(db, cfg.StorageNamespace), func() { _ = db.Close() }, nil

	case "postgres":
		if cfg.DatabaseDSN == "" {
			return nil, nil, errors.New("DATABASE_DSN is required for the postgres driver")
		}
		if cfg.RunMigrations {
			if err := storage.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return nil, nil, err
			}
		}
		pool, err := storage.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewPostgres(pool, cfg.StorageNamespace), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// openPublisher connects to RabbitMQ when configured. Checkout events are
// best-effort, so a broker that is down only costs the events.
func openPublisher(cfg config.Config, store storage.Store, logger *zap.Logger) (orders.EventPublisher, func()) {
	if cfg.RabbitMQURL == "" {
		logger.Info("events disabled")
		return events.NopPublisher{}, func() {}
	}

	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Warn("rabbitmq dial, events disabled", zap.Error(err))
		return events.NopPublisher{}, func() {}
	}

	pub, err := events.NewPublisher(conn, events.NewStorageSequence(store), events.PublisherOptions{Logger: logger})
	if err != nil {
		logger.Warn("rabbitmq publisher, events disabled", zap.Error(err))
		_ = conn.Close()
		return events.NopPublisher{}, func() {}
	}

	return pub, func() {
		_ = pub.Close()
		closeConn(conn, logger)
	}
}

func closeConn(conn *amqp.Connection, logger *zap.Logger) {
	if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		logger.Warn("rabbitmq close", zap.Error(err))
	}
}

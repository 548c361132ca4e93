// main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"teakspice-storefront/internal/api"
	"teakspice-storefront/internal/catalog"
	"teakspice-storefront/internal/config"
	"teakspice-storefront/internal/logging"
	"teakspice-storefront/internal/render"
	"teakspice-storefront/internal/session"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.LookupEnv)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("storefront stopped", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, closeCatalog, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCatalog()

	money, err := render.NewMoney(cfg.Locale, cfg.CurrencySymbol)
	if err != nil {
		return err
	}

	sessions := session.NewRegistry(session.Config{
		TrackerDelay:    cfg.TrackerDelay,
		ConfirmationTTL: cfg.ConfirmationTTL,
	}, logger)
	defer sessions.CloseAll()

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(sessions, cat, render.New(money), []byte(cfg.JWTSecret), logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return sessions.RunJanitor(ctx, time.Minute, cfg.SessionTTL)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Open event streams only end when their sessions close.
		sessions.CloseAll()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("storefront shutdown complete")
	return err
}

// openCatalog uses MongoDB when a URL is configured and the built-in
// product list otherwise.
func openCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) (catalog.Catalog, func(), error) {
	if cfg.MongoURL == "" {
		logger.Info("using built-in catalog", zap.Int("products", len(catalog.DefaultProducts)))
		return catalog.NewMemory(catalog.DefaultProducts), func() {}, nil
	}

	logger.Info("connecting to MongoDB", zap.String("database", cfg.MongoDatabase))
	m, err := catalog.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	if cfg.SeedCatalog {
		n, err := m.Seed(ctx, catalog.DefaultProducts)
		if err != nil {
			_ = m.Close(context.Background())
			return nil, nil, err
		}
		logger.Info("seeded catalog", zap.Int("inserted", n))
	}

	return m, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.Close(closeCtx); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}, nil
}

// Package server initializes and runs the content access gateway.
// It wires the content source, ledger backend and payment verifier together,
// runs migrations, and starts the JSON-RPC HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/logging"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/config"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/content"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/dispatch"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/gate"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/ledger"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/payment"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/pricing"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/server/shared/db"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	manager    db.RepositoryManager
	store      *content.Store
	dispatcher *dispatch.Dispatcher
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	source, err := newSource(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("content source init error: %w", err)
	}

	store := content.NewStore(source, c.CacheTTL, c.ScanConcurrency, logger)

	manager, err := db.NewRepositoryManager(c.LedgerBackend, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := manager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	defaultPrice, err := decimal.NewFromString(c.DefaultPrice)
	if err != nil || defaultPrice.IsNegative() {
		return nil, fmt.Errorf("invalid default price %q", c.DefaultPrice)
	}
	defaults := pricing.Defaults{
		Price:          defaultPrice,
		CurrencySymbol: c.DefaultCurrencySymbol,
		CurrencyName:   c.DefaultCurrencyName,
	}

	verifier := payment.NewFacilitatorClient(c.FacilitatorURL, c.VerifyTimeout)
	ledgerService := ledger.NewService(manager.Ledger(), verifier, c.PayTo, c.Network, c.DefaultCurrencyName, logger)
	accessGate := gate.NewGate(store, ledgerService, verifier, defaults, c.PayTo, c.Network, logger)
	dispatcher := dispatch.NewDispatcher(store, accessGate, ledgerService, defaults, c.SecretKey, logger)

	return &App{
		config:     c,
		logger:     logger,
		manager:    manager,
		store:      store,
		dispatcher: dispatcher,
	}, nil
}

func newSource(ctx context.Context, c *config.Config) (content.Source, error) {
	switch c.ContentSource {
	case "fs":
		return content.NewFileSource(c.ContentDir)
	case "s3":
		return content.NewS3Source(ctx, content.S3Options{
			Bucket:       c.S3Bucket,
			Prefix:       c.S3Prefix,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
		})
	default:
		return nil, fmt.Errorf("unknown content source %q", c.ContentSource)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := dispatch.NewServer(app.config.EndpointAddr, app.dispatcher, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	// The initial scan warms the cache; a failure here is not fatal, the
	// store retries on the next read.
	if err := app.store.Scan(ctx); err != nil {
		app.logger.Warn(ctx, "initial content scan failed", "error", err.Error())
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}

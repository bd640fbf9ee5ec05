package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marcelldechant/bistro/internal/csvimport"
	"github.com/marcelldechant/bistro/internal/domain/order"
	"github.com/marcelldechant/bistro/internal/handler"
	"github.com/marcelldechant/bistro/internal/storage/postgres"
	"github.com/marcelldechant/bistro/pkg/health"
	"github.com/marcelldechant/bistro/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server and the CSV import
// watcher, and handles graceful shutdown. It is the single wiring point for
// the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	// Domain services.
	pricer, err := newPricer(cfg.HappyHour)
	if err != nil {
		return errors.Wrap(err, "happy hour config")
	}
	orderService := order.NewService(productRepo, orderRepo, pricer)

	// HTTP handlers.
	h, err := handler.NewHandler(
		handler.Config{Receipt: order.ReceiptFormat{DecimalComma: cfg.Receipt.DecimalComma}},
		productRepo,
		orderService,
		m.MeterProvider().Meter("bistro"),
	)
	if err != nil {
		return errors.Wrap(err, "create handler")
	}

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("bistro-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// CSV import watcher: polls the drop directory and loads new product
	// files into the catalog.
	if cfg.CSV.Dir != "" {
		importer := csvimport.NewImporter(productRepo, lg.Named("csvimport"))
		watcher := csvimport.NewWatcher(cfg.CSV.Dir, cfg.CSV.Interval, importer, lg.Named("csvwatch"))
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("CSV watcher stopped", zap.Error(err))
			}
		}()
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// newPricer builds the order pricer from the configured happy hour window.
// Pricing uses the system wall clock.
func newPricer(cfg HappyHourConfig) (*order.Pricer, error) {
	window, err := order.NewWindow(cfg.Start, cfg.End)
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(cfg.Rate)
	if err != nil {
		return nil, errors.Wrap(err, "parse rate")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, errors.Errorf("rate %s outside [0, 1]", rate)
	}
	return order.NewPricer(order.NewHappyHour(window, rate), nil), nil
}

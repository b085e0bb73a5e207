package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/http"
	"github.com/yungbote/codewitheasy-admin/internal/observability"
	"github.com/yungbote/codewitheasy-admin/internal/platform/envutil"
	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Storage  Storage
	Services Services
	Server   *http.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	if err := envutil.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return build(ctx, log, cfg)
}

func build(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	cat := resource.Default()

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	storage, err := wireStorage(log, cfg, clients, cat)
	if err != nil {
		log.Sync()
		return nil, err
	}
	svcs := wireServices(log, cfg, clients, storage, cat)
	server := http.NewServer(cfg.Address(), wireRouterConfig(log, cfg, clients, storage, svcs, cat))

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Storage:      storage,
		Services:     svcs,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("Server listening", "addr", a.Cfg.Address(), "backend", a.Storage.Backend.Name())
		errCh <- a.Server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var errs []error
	if a.otelShutdown != nil {
		errs = append(errs, a.otelShutdown(ctx))
	}
	errs = append(errs, a.Storage.Close())
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}

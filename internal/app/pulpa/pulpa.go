// Package pulpa arma y ejecuta el servicio: storage, cache, cliente
// remoto, broker y servidor HTTP.
package pulpa

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/frutosdecopan/pulpa-backend/internal/cache"
	"github.com/frutosdecopan/pulpa-backend/internal/config"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/jwt"
	"github.com/frutosdecopan/pulpa-backend/internal/lib/rabbitmq"
	"github.com/frutosdecopan/pulpa-backend/internal/migrations"
	analyticsservice "github.com/frutosdecopan/pulpa-backend/internal/services/analytics"
	disponibilidadservice "github.com/frutosdecopan/pulpa-backend/internal/services/disponibilidad"
	notifierservice "github.com/frutosdecopan/pulpa-backend/internal/services/notifier"
	prefsservice "github.com/frutosdecopan/pulpa-backend/internal/services/prefs"
	sessionservice "github.com/frutosdecopan/pulpa-backend/internal/services/session"
	solicitudservice "github.com/frutosdecopan/pulpa-backend/internal/services/solicitud"
	"github.com/frutosdecopan/pulpa-backend/internal/sheets"
	"github.com/frutosdecopan/pulpa-backend/internal/storage"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *storage.Storage
	notifier *notifierservice.Service

	rabbitConn *amqp.Connection
	rabbitCh   *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitURL, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(rabbitCh)

	sheetsClient := sheets.NewClient(cfg.Sheets)
	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	sessionService := sessionservice.New(sheetsClient, maker, logger)
	solicitudService := solicitudservice.New(sheetsClient, cacheRedis, cfg.CacheTTL, logger)
	disponibilidadService := disponibilidadservice.New(sheetsClient, cacheRedis, cfg.CacheTTL, logger)
	analyticsService := analyticsservice.New(db, logger)
	prefsService := prefsservice.New(cacheRedis)
	notifierService := notifierservice.New(sheetsClient, publisher, cacheRedis, cfg.Notifier.Interval, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger,
		sessionService, solicitudService, disponibilidadService,
		analyticsService, prefsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		notifier:   notifierService,
		rabbitConn: rabbitConn,
		rabbitCh:   rabbitCh,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.notifier.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitCh.Close()
		_ = a.rabbitConn.Close()
		if cerr := a.db.DB.Close(); cerr != nil && err == nil {
			err = cerr
		}
		return err
	}
}

// Package streamingstar собирает основное приложение: хранилище,
// кеш, платёжный шлюз, очередь квитанций и HTTP-сервер.
package streamingstar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/streamingstar/streaming-star/internal/cache"
	"github.com/streamingstar/streaming-star/internal/config"
	"github.com/streamingstar/streaming-star/internal/lib/jwt"
	"github.com/streamingstar/streaming-star/internal/lib/rabbitmq"
	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/migrations"
	"github.com/streamingstar/streaming-star/internal/models"
	"github.com/streamingstar/streaming-star/internal/razorpay"
	authservice "github.com/streamingstar/streaming-star/internal/services/auth"
	billingservice "github.com/streamingstar/streaming-star/internal/services/billing"
	catalogservice "github.com/streamingstar/streaming-star/internal/services/catalog"
	entitlementservice "github.com/streamingstar/streaming-star/internal/services/entitlement"
	"github.com/streamingstar/streaming-star/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

// receiptPublisher публикует события квитанций в очередь воркера.
type receiptPublisher struct {
	ch *amqp.Channel
}

func (p *receiptPublisher) PublishReceipt(event models.ReceiptEvent) error {
	return rabbitmq.Publish(p.ch, rabbitmq.ReceiptRoutingKey, event)
}

// New собирает приложение из конфигурации. Очередь квитанций
// опциональна: при недоступном брокере письма не отправляются,
// но оплата продолжает работать.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher billingservice.Publisher
	var amqpConn *amqp.Connection
	amqpConn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, receipts will not be sent", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetReceiptQueues())
		if err != nil {
			return nil, err
		}
		publisher = &receiptPublisher{ch: ch}
	}

	gateway := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	billingService := billingservice.New(db, gateway, cacheRedis, publisher, logger)
	entitlementService := entitlementservice.New(db, cacheRedis, logger)
	catalogService := catalogservice.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db,
		authService, billingService, entitlementService, catalogService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
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
		if a.amqp != nil {
			_ = a.amqp.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}

// Package receiptsender собирает воркер квитанций: подключается к
// очереди и отправляет письма об успешной оплате.
package receiptsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/streamingstar/streaming-star/internal/config"
	"github.com/streamingstar/streaming-star/internal/lib/rabbitmq"
	"github.com/streamingstar/streaming-star/internal/lib/smtp"
	senderservice "github.com/streamingstar/streaming-star/internal/services/sender"
)

// App инкапсулирует соединение с брокером и сервис отправки квитанций.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New собирает воркер из конфигурации.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReceiptQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	mailer := smtp.NewSender(cfg.SMTP)
	senderService := senderservice.New(mailer, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	if err := rabbitmq.ConsumerMessage(ctx, a.ch, "payments.receipt", a.senderService.SendReceipt); err != nil {
		a.logger.Error("failed to start receipt consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("receipt sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}

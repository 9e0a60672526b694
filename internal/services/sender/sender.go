// Package sender содержит воркер квитанций: разбирает события об
// оплате из очереди и отправляет пользователю письмо-подтверждение.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streamingstar/streaming-star/internal/lib/sl"
	"github.com/streamingstar/streaming-star/internal/models"
)

// Mailer описывает контракт почтового транспорта.
type Mailer interface {
	Send(to, subject, body string) error
}

// Service отправляет письма-квитанции об успешной оплате.
type Service struct {
	mailer Mailer
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(mailer Mailer, log *slog.Logger) *Service {
	return &Service{
		mailer: mailer,
		log:    log,
	}
}

// SendReceipt разбирает событие об оплате и отправляет квитанцию.
func (s *Service) SendReceipt(body []byte) error {
	const op = "sender.SendReceipt"

	var event models.ReceiptEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal receipt event", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := fmt.Sprintf("Streaming Star: %s plan payment received", event.PlanLabel)
	bodyText := fmt.Sprintf(
		"Hello, %s!\n\n"+
			"We have received your payment for the %s plan.\n\n"+
			"Payment ID: %s\n"+
			"Amount: INR %.2f\n"+
			"Billing period: %s\n"+
			"Next payment date: %s\n\n"+
			"Enjoy watching!",
		event.Username,
		event.PlanLabel,
		event.PaymentID,
		float64(event.AmountPaise)/100,
		event.BillingLabel,
		event.NextPaymentDate.Format("02 Jan 2006"),
	)

	if err := s.mailer.Send(event.Email, subject, bodyText); err != nil {
		s.log.Error("failed to send receipt email", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("receipt email sent",
		slog.String("payment_id", event.PaymentID))
	return nil
}

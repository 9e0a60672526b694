package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publish сериализует событие оплаты в JSON и публикует его в обменник
// Exchange с указанным ключом маршрутизации. Сообщения помечаются
// персистентными, чтобы квитанции переживали перезапуск брокера.
func Publish(ch *amqp.Channel, routingKey string, event any) error {
	const op = "rabbitmq.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

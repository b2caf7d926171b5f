// setup.go
package rabbit

import (
	"github.com/rabbitmq/amqp091-go"
)

const (
	// Exchange fanout que consumen los microservicios interesados en
	// pedidos nuevos (estado, facturación, notificaciones).
	ExchangeOrderPlaced = "order_placed"
	// Exchange fanout con los cambios de estado.
	ExchangeOrderStatus = "order_status"
)

// Setup declara los exchanges que publica este servicio.
func Setup(ch *amqp091.Channel) error {
	for _, ex := range []string{ExchangeOrderPlaced, ExchangeOrderStatus} {
		err := ch.ExchangeDeclare(
			ex,
			"fanout",
			true,  // durable
			false, // auto-delete
			false,
			false,
			nil,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

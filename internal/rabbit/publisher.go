package rabbit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"pedidos-backoffice/internal/model"
)

// Publisher anuncia los hechos del pedido por los exchanges fanout.
// Un error de publicación solo se registra: el pedido ya quedó
// confirmado y el evento no es parte de la transacción.
type Publisher struct {
	ch  *amqp091.Channel
	log *logrus.Logger
}

func NewPublisher(ch *amqp091.Channel, log *logrus.Logger) (*Publisher, error) {
	if err := Setup(ch); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, log: log}, nil
}

// Sobre del mensaje, con correlation id para rastrear el hecho entre
// servicios.
type envelope struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       any    `json:"message"`
}

type placedArticle struct {
	ArticleID string `json:"articleId"`
	Quantity  int    `json:"quantity"`
}

type placedMessage struct {
	OrderID  string          `json:"orderId"`
	UserID   string          `json:"userId"`
	Articles []placedArticle `json:"articles"`
	Shipping struct {
		AddressLine1 string `json:"addressLine1"`
	} `json:"shipping"`
}

type statusMessage struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (p *Publisher) publicar(ctx context.Context, exchange string, message any) {
	body, err := json.Marshal(envelope{
		CorrelationID: uuid.NewString(),
		Exchange:      exchange,
		Message:       message,
	})
	if err != nil {
		p.log.WithError(err).Error("error serializando evento")
		return
	}

	err = p.ch.PublishWithContext(ctx,
		exchange,
		"", // fanout ignora routing key
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		p.log.WithError(err).WithField("exchange", exchange).Error("error publicando evento")
		return
	}
	p.log.WithField("exchange", exchange).Debug("evento publicado")
}

func (p *Publisher) OrderPlaced(ctx context.Context, pedido *model.Pedido) {
	msg := placedMessage{
		OrderID: pedido.ID,
		UserID:  pedido.IDCliente,
	}
	for _, l := range pedido.Productos {
		msg.Articles = append(msg.Articles, placedArticle{
			ArticleID: l.ProductoID,
			Quantity:  l.Cantidad,
		})
	}
	msg.Shipping.AddressLine1 = pedido.DireccionEnvio
	p.publicar(ctx, ExchangeOrderPlaced, msg)
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, pedidoID string, estado model.Estado) {
	p.publicar(ctx, ExchangeOrderStatus, statusMessage{
		OrderID: pedidoID,
		Status:  estado.Etiqueta(),
	})
}

package service

import (
	"context"

	"pedidos-backoffice/internal/dto"
	"pedidos-backoffice/internal/model"
)

// Interfaz que deben implementar los repositorios de pedidos
// (Mongo propio o el API colaborador vía HTTP).
type PedidoRepository interface {
	List(ctx context.Context) ([]model.Pedido, error)
	FindByID(ctx context.Context, id string) (*model.Pedido, error)
	Create(ctx context.Context, req dto.CrearPedidoRequest) (*model.Pedido, error)
	Update(ctx context.Context, id string, req dto.ActualizarPedidoRequest) (*model.Pedido, error)
	ChangeStatus(ctx context.Context, id string, estado model.Estado) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher anuncia los hechos del ciclo de vida del pedido a los
// demás microservicios (exchange fanout de Rabbit).
type EventPublisher interface {
	OrderPlaced(ctx context.Context, p *model.Pedido)
	OrderStatusChanged(ctx context.Context, pedidoID string, estado model.Estado)
}

// NoopPublisher se usa cuando Rabbit está deshabilitado y en tests.
type NoopPublisher struct{}

func (NoopPublisher) OrderPlaced(context.Context, *model.Pedido)               {}
func (NoopPublisher) OrderStatusChanged(context.Context, string, model.Estado) {}

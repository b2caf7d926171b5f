package repository

import (
	"context"
	"errors"
	"time"

	"pedidos-backoffice/internal/dto"
	"pedidos-backoffice/internal/model"
	"pedidos-backoffice/internal/money"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("pedido no encontrado")
	ErrPedidoCongelado = errors.New("no se puede modificar ni eliminar un pedido terminado")
	ErrEstadoTerminal  = errors.New("el pedido ya está en un estado final")
)

// Mongo implementation
type MongoPedidoRepository struct {
	col *mongo.Collection
}

func NewMongoPedidoRepository(db *mongo.Database) *MongoPedidoRepository {
	return &MongoPedidoRepository{col: db.Collection("pedidos")}
}

// lineas materializa las líneas del payload recalculando cada subtotal.
func lineas(productos []dto.LineaPedidoInput) []model.LineaPedido {
	var out []model.LineaPedido
	for _, l := range productos {
		out = append(out, model.LineaPedido{
			ProductoID:     l.IDProducto,
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       money.Subtotal(l.Cantidad, l.PrecioUnitario),
		})
	}
	return out
}

func (m *MongoPedidoRepository) Create(ctx context.Context, req dto.CrearPedidoRequest) (*model.Pedido, error) {
	p := model.Pedido{
		ID:                 uuid.NewString(),
		IDCliente:          req.IDCliente,
		DocumentoIdentidad: req.DocumentoIdentidad,
		DireccionEnvio:     req.DireccionEnvio,
		Productos:          lineas(req.Productos),
		// Se confía en el total calculado al momento del envío
		Total:       req.Total,
		Estado:      model.EstadoPendiente,
		FechaPedido: time.Now().UTC(),
	}

	if _, err := m.col.InsertOne(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MongoPedidoRepository) FindByID(ctx context.Context, id string) (*model.Pedido, error) {
	var res model.Pedido
	err := m.col.FindOne(ctx, bson.M{"pedido_id": id}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *MongoPedidoRepository) List(ctx context.Context) ([]model.Pedido, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.Pedido
	for cur.Next(ctx) {
		var v model.Pedido
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

func (m *MongoPedidoRepository) Update(ctx context.Context, id string, req dto.ActualizarPedidoRequest) (*model.Pedido, error) {
	actual, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Un pedido terminado queda congelado también del lado servidor
	if actual.Estado == model.EstadoTerminado {
		return nil, ErrPedidoCongelado
	}

	nuevas := lineas(req.Productos)
	var total int64
	for _, l := range nuevas {
		total += l.Subtotal
	}

	update := bson.M{
		"$set": bson.M{
			"id_cliente":          req.IDCliente,
			"documento_identidad": req.DocumentoIdentidad,
			"direccion_envio":     req.DireccionEnvio,
			"productos":           nuevas,
			"total":               total,
		},
	}
	if _, err := m.col.UpdateOne(ctx, bson.M{"pedido_id": id}, update); err != nil {
		return nil, err
	}
	return m.FindByID(ctx, id)
}

func (m *MongoPedidoRepository) ChangeStatus(ctx context.Context, id string, estado model.Estado) error {
	actual, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	// Rechazo del lado servidor: desde un estado final no hay cambio
	if actual.Estado == model.EstadoTerminado || actual.Estado == model.EstadoCancelado {
		return ErrEstadoTerminal
	}

	update := bson.M{"$set": bson.M{"estado": estado}}
	r, err := m.col.UpdateOne(ctx, bson.M{"pedido_id": id}, update)
	if err != nil {
		return err
	}
	if r.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoPedidoRepository) Delete(ctx context.Context, id string) error {
	actual, err := m.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actual.Estado == model.EstadoTerminado {
		return ErrPedidoCongelado
	}

	r, err := m.col.DeleteOne(ctx, bson.M{"pedido_id": id})
	if err != nil {
		return err
	}
	if r.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

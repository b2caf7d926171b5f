// dto.go
package dto

import (
	"time"

	"pedidos-backoffice/internal/model"
)

// LineaPedidoInput es una línea del payload de creación/edición.
// El nombre viaja denormalizado para que la lista pueda buscar por producto
// sin consultar el catálogo.
type LineaPedidoInput struct {
	IDProducto     string `json:"id_producto" binding:"required"`
	Nombre         string `json:"nombre,omitempty"`
	Cantidad       int    `json:"cantidad" binding:"required"`
	PrecioUnitario int64  `json:"precio_unitario"`
}

// CrearPedidoRequest es el payload que arma el checkout.
// id_cliente y documentoIdentidad son mutuamente excluyentes.
type CrearPedidoRequest struct {
	IDCliente          string             `json:"id_cliente,omitempty"`
	DocumentoIdentidad string             `json:"documentoIdentidad,omitempty"`
	DireccionEnvio     string             `json:"direccion_envio"`
	Total              int64              `json:"total"`
	Productos          []LineaPedidoInput `json:"productos"`
}

// ActualizarPedidoRequest edita un pedido existente (back office).
type ActualizarPedidoRequest struct {
	IDCliente          string             `json:"id_cliente,omitempty"`
	DocumentoIdentidad string             `json:"documentoIdentidad,omitempty"`
	DireccionEnvio     string             `json:"direccion_envio"`
	Productos          []LineaPedidoInput `json:"productos"`
}

// CheckoutForm son los datos de identificación que digita el cliente.
type CheckoutForm struct {
	NombreCompleto     string `json:"nombreCompleto"`
	DocumentoIdentidad string `json:"documentoIdentidad"`
	DireccionEnvio     string `json:"direccion_envio"`
	Telefono           string `json:"telefono"`
	Email              string `json:"email"`

	// Lo completa el middleware cuando hay sesión autenticada, nunca el cliente.
	IDCliente string `json:"-"`
}

type CambiarEstadoRequest struct {
	// Vacío resuelve automáticamente cuando hay una única transición permitida.
	Estado model.Estado `json:"estado"`
}

// MoverPedidoRequest es el gesto de arrastre del kanban: la columna destino.
type MoverPedidoRequest struct {
	Columna model.Estado `json:"columna" binding:"required"`
}

type AgregarItemRequest struct {
	ID     string `json:"id" binding:"required"`
	Nombre string `json:"nombre" binding:"required"`
	Precio int64  `json:"precio"`
	Imagen string `json:"imagen"`
}

type PedidoResumen struct {
	ID          string       `json:"id"`
	Cliente     string       `json:"cliente"`
	Total       int64        `json:"total"`
	TotalTexto  string       `json:"totalTexto"`
	Estado      model.Estado `json:"estado"`
	FechaPedido time.Time    `json:"fecha_pedido"`
}

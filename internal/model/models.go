// models.go
package model

import "time"

// Estado del pedido. Catálogo cerrado, no hay catálogo en BD.
type Estado string

const (
	EstadoPendiente   Estado = "pendiente"
	EstadoPreparacion Estado = "preparacion"
	EstadoTerminado   Estado = "terminado"
	EstadoCancelado   Estado = "cancelado"
)

// Estados reconocidos, en el orden en que se muestran las columnas del kanban.
var Estados = []Estado{EstadoPendiente, EstadoPreparacion, EstadoTerminado, EstadoCancelado}

func EstadoValido(e Estado) bool {
	for _, v := range Estados {
		if v == e {
			return true
		}
	}
	return false
}

// Etiqueta legible para mensajes y notificaciones.
func (e Estado) Etiqueta() string {
	switch e {
	case EstadoPendiente:
		return "Pendiente"
	case EstadoPreparacion:
		return "En Preparación"
	case EstadoTerminado:
		return "Terminado"
	case EstadoCancelado:
		return "Cancelado"
	}
	return string(e)
}

// Cliente registrado, tal como lo devuelve el backend junto al pedido.
type Cliente struct {
	ID             string `bson:"id" json:"id"`
	NombreCompleto string `bson:"nombrecompleto" json:"nombrecompleto"`
	Telefono       string `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Email          string `bson:"email,omitempty" json:"email,omitempty"`
}

// Línea de un pedido. El subtotal siempre se deriva de cantidad y
// precio_unitario, nunca se guarda por separado de sus entradas.
type LineaPedido struct {
	ProductoID     string `bson:"producto_id" json:"producto_id"`
	Nombre         string `bson:"nombre" json:"nombre"`
	Cantidad       int    `bson:"cantidad" json:"cantidad"`
	PrecioUnitario int64  `bson:"precio_unitario" json:"precio_unitario"`
	Subtotal       int64  `bson:"subtotal" json:"subtotal"`
}

type Pedido struct {
	ID string `bson:"pedido_id" json:"id"`

	// Identidad del cliente: id registrado o, si no existe,
	// documento de identidad como identificador libre. Nunca ambos.
	IDCliente          string   `bson:"id_cliente,omitempty" json:"id_cliente,omitempty"`
	DocumentoIdentidad string   `bson:"documento_identidad,omitempty" json:"documentoIdentidad,omitempty"`
	Cliente            *Cliente `bson:"cliente,omitempty" json:"Cliente,omitempty"`

	DireccionEnvio string        `bson:"direccion_envio" json:"direccion_envio"`
	Productos      []LineaPedido `bson:"productos" json:"productos"`
	Total          int64         `bson:"total" json:"total"`
	Estado         Estado        `bson:"estado" json:"estado"`
	FechaPedido    time.Time     `bson:"fecha_pedido" json:"fecha_pedido"`
}

// NombreCliente resuelve el nombre a mostrar: cliente registrado o documento.
func (p *Pedido) NombreCliente() string {
	if p.Cliente != nil && p.Cliente.NombreCompleto != "" {
		return p.Cliente.NombreCompleto
	}
	return p.DocumentoIdentidad
}

// Producto tal como lo ve el catálogo del storefront.
type Producto struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Precio int64  `json:"precio"`
	Imagen string `json:"imagen,omitempty"`
}

// Ítem del carrito. La clave de identidad es el id del producto.
// El precio queda fijado al momento de agregar al carrito.
type CartItem struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Precio   int64  `json:"precio"`
	Imagen   string `json:"imagen,omitempty"`
	Cantidad int    `json:"cantidad"`
}

// Carrito en memoria de una sesión de navegación. No se persiste.
type Cart struct {
	Items  []CartItem `json:"items"`
	IsOpen bool       `json:"isOpen"`
}

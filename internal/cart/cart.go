// Package cart implementa el carrito de compras como un reductor puro
// sobre eventos: reduce(estado, evento) -> estado. El estado vive solo en
// memoria; no se persiste entre sesiones.
package cart

import (
	"pedidos-backoffice/internal/model"
	"pedidos-backoffice/internal/money"
)

// Event es un evento del carrito. Los tipos concretos son los únicos
// disparadores de cambio de estado.
type Event interface{ cartEvent() }

// AgregarItem suma 1 a la cantidad si el producto ya está, o agrega
// una línea nueva con cantidad 1. Sin tope superior.
type AgregarItem struct{ Producto model.Producto }

// QuitarItem elimina la línea completa, sin importar la cantidad.
type QuitarItem struct{ ProductoID string }

// Incrementar suma 1 a la cantidad de la línea.
type Incrementar struct{ ProductoID string }

// Decrementar resta 1; al llegar a 0 la línea se elimina, nunca queda
// una línea con cantidad 0.
type Decrementar struct{ ProductoID string }

// AlternarVisibilidad y Cerrar solo tocan la bandera de UI.
type AlternarVisibilidad struct{}
type Cerrar struct{}

// Vaciar deja el carrito sin ítems (se usa al confirmar el pedido).
type Vaciar struct{}

func (AgregarItem) cartEvent()         {}
func (QuitarItem) cartEvent()          {}
func (Incrementar) cartEvent()         {}
func (Decrementar) cartEvent()         {}
func (AlternarVisibilidad) cartEvent() {}
func (Cerrar) cartEvent()              {}
func (Vaciar) cartEvent()              {}

// Reduce aplica un evento y devuelve el nuevo estado. No muta el estado
// de entrada; las líneas se copian antes de tocarlas.
func Reduce(state model.Cart, ev Event) model.Cart {
	switch e := ev.(type) {
	case AgregarItem:
		for i, it := range state.Items {
			if it.ID == e.Producto.ID {
				items := copiar(state.Items)
				items[i].Cantidad++
				state.Items = items
				return state
			}
		}
		items := copiar(state.Items)
		state.Items = append(items, model.CartItem{
			ID:       e.Producto.ID,
			Nombre:   e.Producto.Nombre,
			Precio:   e.Producto.Precio,
			Imagen:   e.Producto.Imagen,
			Cantidad: 1,
		})
		return state

	case QuitarItem:
		state.Items = filtrar(state.Items, e.ProductoID)
		return state

	case Incrementar:
		items := copiar(state.Items)
		for i := range items {
			if items[i].ID == e.ProductoID {
				items[i].Cantidad++
			}
		}
		state.Items = items
		return state

	case Decrementar:
		items := copiar(state.Items)
		for i := range items {
			if items[i].ID == e.ProductoID {
				items[i].Cantidad--
			}
		}
		// Una línea que baja de 1 se elimina
		var out []model.CartItem
		for _, it := range items {
			if it.Cantidad > 0 {
				out = append(out, it)
			}
		}
		state.Items = out
		return state

	case AlternarVisibilidad:
		state.IsOpen = !state.IsOpen
		return state

	case Cerrar:
		state.IsOpen = false
		return state

	case Vaciar:
		state.Items = nil
		return state
	}
	return state
}

// Total del carrito con los precios capturados en cada línea.
func Total(c model.Cart) int64 {
	var total int64
	for _, it := range c.Items {
		total += money.Subtotal(it.Cantidad, it.Precio)
	}
	return total
}

// TotalItems cuenta unidades, no líneas.
func TotalItems(c model.Cart) int {
	n := 0
	for _, it := range c.Items {
		n += it.Cantidad
	}
	return n
}

func copiar(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out
}

func filtrar(items []model.CartItem, id string) []model.CartItem {
	var out []model.CartItem
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

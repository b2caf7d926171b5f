package cart

import (
	"testing"

	"pedidos-backoffice/internal/model"
)

var hamburguesa = model.Producto{ID: "p1", Nombre: "Hamburguesa", Precio: 10000}
var gaseosa = model.Producto{ID: "p2", Nombre: "Gaseosa", Precio: 3000}

func TestAgregarItemDuplicadoSumaCantidad(t *testing.T) {
	c := Reduce(model.Cart{}, AgregarItem{Producto: hamburguesa})
	c = Reduce(c, AgregarItem{Producto: hamburguesa})

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Items))
	}
	if c.Items[0].Cantidad != 2 {
		t.Errorf("expected cantidad 2, got %d", c.Items[0].Cantidad)
	}
}

func TestAgregarItemNuevoAgregaLinea(t *testing.T) {
	c := Reduce(model.Cart{}, AgregarItem{Producto: hamburguesa})
	c = Reduce(c, AgregarItem{Producto: gaseosa})

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Items))
	}
	if c.Items[1].Cantidad != 1 {
		t.Errorf("new line should start at cantidad 1, got %d", c.Items[1].Cantidad)
	}
}

func TestQuitarItemEliminaLineaCompleta(t *testing.T) {
	c := Reduce(model.Cart{}, AgregarItem{Producto: hamburguesa})
	c = Reduce(c, Incrementar{ProductoID: "p1"})
	c = Reduce(c, QuitarItem{ProductoID: "p1"})

	if len(c.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(c.Items))
	}
}

func TestDecrementarEnUnoElimina(t *testing.T) {
	c := Reduce(model.Cart{}, AgregarItem{Producto: hamburguesa})
	c = Reduce(c, Decrementar{ProductoID: "p1"})

	// Nunca debe quedar una línea con cantidad 0
	if len(c.Items) != 0 {
		t.Fatalf("expected line removed at cantidad 0, got %+v", c.Items)
	}
}

func TestDecrementarNoTocaOtrasLineas(t *testing.T) {
	c := Reduce(model.Cart{}, AgregarItem{Producto: hamburguesa})
	c = Reduce(c, AgregarItem{Producto: gaseosa})
	c = Reduce(c, Incrementar{ProductoID: "p2"})
	c = Reduce(c, Decrementar{ProductoID: "p1"})

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Items))
	}
	if c.Items[0].ID != "p2" || c.Items[0].Cantidad != 2 {
		t.Errorf("unexpected surviving line: %+v", c.Items[0])
	}
}

func TestTotalTrasSecuenciaDeEventos(t *testing.T) {
	c := model.Cart{}
	c = Reduce(c, AgregarItem{Producto: hamburguesa})
	c = Reduce(c, AgregarItem{Producto: hamburguesa})
	c = Reduce(c, AgregarItem{Producto: gaseosa})
	c = Reduce(c, Incrementar{ProductoID: "p2"})
	c = Reduce(c, Decrementar{ProductoID: "p2"})

	// 2 x 10000 + 1 x 3000
	if got := Total(c); got != 23000 {
		t.Errorf("Total = %d, want 23000", got)
	}

	// El invariante se sostiene recomputando línea por línea
	var suma int64
	for _, it := range c.Items {
		suma += int64(it.Cantidad) * it.Precio
	}
	if suma != Total(c) {
		t.Errorf("total drifted: sum=%d Total=%d", suma, Total(c))
	}
}

func TestVisibilidadNoAfectaItems(t *testing.T) {
	c := Reduce(model.Cart{}, AgregarItem{Producto: hamburguesa})
	c = Reduce(c, AlternarVisibilidad{})
	if !c.IsOpen {
		t.Error("expected cart open after toggle")
	}
	c = Reduce(c, Cerrar{})
	if c.IsOpen {
		t.Error("expected cart closed")
	}
	if len(c.Items) != 1 {
		t.Errorf("visibility events must not touch items, got %d lines", len(c.Items))
	}
}

func TestReduceNoMutaElEstadoAnterior(t *testing.T) {
	c1 := Reduce(model.Cart{}, AgregarItem{Producto: hamburguesa})
	c2 := Reduce(c1, Incrementar{ProductoID: "p1"})

	if c1.Items[0].Cantidad != 1 {
		t.Errorf("previous state mutated: cantidad=%d", c1.Items[0].Cantidad)
	}
	if c2.Items[0].Cantidad != 2 {
		t.Errorf("next state wrong: cantidad=%d", c2.Items[0].Cantidad)
	}
}

func TestStoreSesionesIndependientes(t *testing.T) {
	s := NewStore()
	a := s.NuevaSesion()
	b := s.NuevaSesion()

	s.Dispatch(a, AgregarItem{Producto: hamburguesa})
	if got := len(s.Get(b).Items); got != 0 {
		t.Errorf("session b should be empty, got %d lines", got)
	}
	if got := len(s.Get(a).Items); got != 1 {
		t.Errorf("session a should have 1 line, got %d", got)
	}
}

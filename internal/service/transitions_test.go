package service

import (
	"testing"

	"pedidos-backoffice/internal/model"
)

func TestTransicionesDesdePendiente(t *testing.T) {
	if err := CanTransition(model.EstadoPendiente, model.EstadoPreparacion); err != nil {
		t.Errorf("pendiente -> preparacion should be allowed: %v", err)
	}
	if err := CanTransition(model.EstadoPendiente, model.EstadoCancelado); err != nil {
		t.Errorf("pendiente -> cancelado should be allowed: %v", err)
	}
	// No hay salto directo a terminado
	if err := CanTransition(model.EstadoPendiente, model.EstadoTerminado); err != ErrTransicionInvalida {
		t.Errorf("pendiente -> terminado should be rejected, got %v", err)
	}
}

func TestTransicionesDesdePreparacion(t *testing.T) {
	if err := CanTransition(model.EstadoPreparacion, model.EstadoTerminado); err != nil {
		t.Errorf("preparacion -> terminado should be allowed: %v", err)
	}
	if err := CanTransition(model.EstadoPreparacion, model.EstadoCancelado); err != nil {
		t.Errorf("preparacion -> cancelado should be allowed: %v", err)
	}
	if err := CanTransition(model.EstadoPreparacion, model.EstadoPendiente); err != ErrTransicionInvalida {
		t.Errorf("preparacion -> pendiente should be rejected, got %v", err)
	}
}

func TestEstadosFinalesRechazanTodo(t *testing.T) {
	for _, final := range []model.Estado{model.EstadoTerminado, model.EstadoCancelado} {
		for _, destino := range model.Estados {
			if err := CanTransition(final, destino); err != ErrEstadoFinal {
				t.Errorf("CanTransition(%s, %s) = %v, want ErrEstadoFinal", final, destino, err)
			}
		}
	}
}

func TestSinAutoTransiciones(t *testing.T) {
	// La tabla no tiene aristas hacia el mismo estado
	if err := CanTransition(model.EstadoPendiente, model.EstadoPendiente); err == nil {
		t.Error("pendiente -> pendiente should be rejected")
	}
}

func TestDestinoDesconocido(t *testing.T) {
	if err := CanTransition(model.EstadoPendiente, model.Estado("enviado")); err != ErrTransicionInvalida {
		t.Errorf("unknown target should be rejected, got %v", err)
	}
}

func TestTransicionesPermitidas(t *testing.T) {
	if got := TransicionesPermitidas(model.EstadoPreparacion); len(got) != 2 {
		t.Errorf("preparacion should have 2 targets, got %v", got)
	}
	if got := TransicionesPermitidas(model.EstadoTerminado); len(got) != 0 {
		t.Errorf("terminado should have no targets, got %v", got)
	}
}

func TestPuedeEditar(t *testing.T) {
	if PuedeEditar(&model.Pedido{Estado: model.EstadoTerminado}) {
		t.Error("terminado must be frozen for edit/delete")
	}
	// Cancelado bloquea transiciones pero no la edición
	if !PuedeEditar(&model.Pedido{Estado: model.EstadoCancelado}) {
		t.Error("cancelado should still be editable")
	}
	if !PuedeEditar(&model.Pedido{Estado: model.EstadoPendiente}) {
		t.Error("pendiente should be editable")
	}
}

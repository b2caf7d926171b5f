package service

import (
	"errors"

	"pedidos-backoffice/internal/model"
)

// Errores de negocio exportados (los usan los controllers)
var (
	ErrTransicionInvalida   = errors.New("transición de estado inválida")
	ErrEstadoFinal          = errors.New("no se puede cambiar el estado de un pedido en estado final")
	ErrPedidoTerminado      = errors.New("no se puede modificar ni eliminar un pedido terminado")
	ErrPedidoNoEncontrado   = errors.New("pedido no encontrado")
	ErrActualizacionEnCurso = errors.New("el pedido ya tiene una actualización en curso")
)

// Transiciones permitidas (hardcodeadas por estado). No hay salto
// pendiente -> terminado ni vuelta atrás desde estados finales.
var transiciones = map[model.Estado][]model.Estado{
	model.EstadoPendiente:   {model.EstadoPreparacion, model.EstadoCancelado},
	model.EstadoPreparacion: {model.EstadoTerminado, model.EstadoCancelado},
}

// Estados finales
var estadosFinales = map[model.Estado]bool{
	model.EstadoTerminado: true,
	model.EstadoCancelado: true,
}

func EsFinal(e model.Estado) bool {
	return estadosFinales[e]
}

// TransicionesPermitidas devuelve los destinos válidos desde un estado.
// Vacío para estados finales.
func TransicionesPermitidas(actual model.Estado) []model.Estado {
	return transiciones[actual]
}

// CanTransition decide si el cambio actual -> destino está permitido.
// El error explica el motivo del rechazo; nil significa permitido.
// Pedir una transición desde un estado final nunca es un éxito silencioso.
func CanTransition(actual, destino model.Estado) error {
	if estadosFinales[actual] {
		return ErrEstadoFinal
	}
	if !model.EstadoValido(destino) {
		return ErrTransicionInvalida
	}
	for _, t := range transiciones[actual] {
		if t == destino {
			return nil
		}
	}
	return ErrTransicionInvalida
}

// PuedeEditar indica si el pedido admite edición o eliminación.
// Un pedido terminado queda congelado por completo, no solo su estado.
func PuedeEditar(p *model.Pedido) bool {
	return p.Estado != model.EstadoTerminado
}

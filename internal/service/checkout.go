package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"pedidos-backoffice/internal/cart"
	"pedidos-backoffice/internal/dto"
	"pedidos-backoffice/internal/model"
)

var (
	ErrCarritoVacio = errors.New("el carrito está vacío")
	ErrEnvioEnCurso = errors.New("ya hay un envío del pedido en curso")
)

// ErrorValidacion agrupa los mensajes por campo. Mientras exista algún
// mensaje el envío queda bloqueado y nada llega a la red.
type ErrorValidacion struct {
	Campos map[string]string
}

func (e *ErrorValidacion) Error() string {
	return fmt.Sprintf("formulario inválido (%d campos)", len(e.Campos))
}

var (
	telefonoRe = regexp.MustCompile(`^\d{10}$`)
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// CheckoutService arma el pedido a partir del carrito: valida la
// identificación del cliente, calcula el total con los precios capturados
// en cada línea y construye el payload de creación.
type CheckoutService struct {
	carts  *cart.Store
	repo   PedidoRepository
	events EventPublisher
	log    *logrus.Logger

	// Cerrojo de envío único por sesión: dos clics rápidos sobre
	// "realizar pedido" generan una sola llamada a Create.
	mu       sync.Mutex
	enviando map[string]bool
}

func NewCheckoutService(carts *cart.Store, repo PedidoRepository, events EventPublisher, log *logrus.Logger) *CheckoutService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &CheckoutService{
		carts:    carts,
		repo:     repo,
		events:   events,
		log:      log,
		enviando: make(map[string]bool),
	}
}

// Validar revisa los campos de identificación y devuelve mensaje por campo.
// Mapa vacío significa formulario válido. El documento solo se exige
// cuando no hay cliente registrado; con id_cliente presente se ignora.
func Validar(form dto.CheckoutForm) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(form.NombreCompleto) == "" {
		errs["nombreCompleto"] = "El nombre es obligatorio"
	}
	if form.IDCliente == "" && strings.TrimSpace(form.DocumentoIdentidad) == "" {
		errs["documentoIdentidad"] = "El documento es obligatorio"
	}
	if strings.TrimSpace(form.DireccionEnvio) == "" {
		errs["direccion_envio"] = "La dirección es obligatoria"
	}
	if strings.TrimSpace(form.Telefono) == "" {
		errs["telefono"] = "El teléfono es obligatorio"
	} else if !telefonoRe.MatchString(strings.TrimSpace(form.Telefono)) {
		errs["telefono"] = "Debe tener 10 dígitos"
	}
	if strings.TrimSpace(form.Email) == "" {
		errs["email"] = "El correo es obligatorio"
	} else if !emailRe.MatchString(strings.TrimSpace(form.Email)) {
		errs["email"] = "Correo inválido"
	}
	return errs
}

// ArmarPayload mapea las líneas del carrito al payload de creación.
// La identidad se resuelve como id_cliente cuando hay cliente registrado
// y si no como documentoIdentidad; nunca se envían ambos.
func ArmarPayload(c model.Cart, form dto.CheckoutForm) dto.CrearPedidoRequest {
	req := dto.CrearPedidoRequest{
		DireccionEnvio: strings.TrimSpace(form.DireccionEnvio),
		Total:          cart.Total(c),
	}
	if form.IDCliente != "" {
		req.IDCliente = form.IDCliente
	} else {
		req.DocumentoIdentidad = strings.TrimSpace(form.DocumentoIdentidad)
	}
	for _, it := range c.Items {
		req.Productos = append(req.Productos, dto.LineaPedidoInput{
			IDProducto:     it.ID,
			Nombre:         it.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.Precio,
		})
	}
	return req
}

// Enviar valida, arma y envía el pedido de la sesión. En éxito vacía el
// carrito, cierra la superficie de checkout y devuelve el pedido creado.
// En fracaso el carrito queda intacto para reintentar sin redigitar.
func (s *CheckoutService) Enviar(ctx context.Context, sessionID string, form dto.CheckoutForm) (*model.Pedido, error) {
	if errs := Validar(form); len(errs) > 0 {
		return nil, &ErrorValidacion{Campos: errs}
	}

	c := s.carts.Get(sessionID)
	if len(c.Items) == 0 {
		return nil, ErrCarritoVacio
	}

	// Cerrojo contra envíos duplicados del mismo borrador
	s.mu.Lock()
	if s.enviando[sessionID] {
		s.mu.Unlock()
		return nil, ErrEnvioEnCurso
	}
	s.enviando[sessionID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.enviando, sessionID)
		s.mu.Unlock()
	}()

	payload := ArmarPayload(c, form)

	pedido, err := s.repo.Create(ctx, payload)
	if err != nil {
		// El mensaje del backend se propaga tal cual; el carrito no se toca
		s.log.WithError(err).Warn("error creando pedido")
		return nil, err
	}

	s.carts.Dispatch(sessionID, cart.Vaciar{})
	s.carts.Dispatch(sessionID, cart.Cerrar{})

	s.log.WithFields(logrus.Fields{
		"pedido_id": pedido.ID,
		"total":     pedido.Total,
	}).Info("pedido creado")

	s.events.OrderPlaced(ctx, pedido)
	return pedido, nil
}

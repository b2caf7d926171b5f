package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"pedidos-backoffice/internal/dto"
	"pedidos-backoffice/internal/model"
	"pedidos-backoffice/internal/money"
)

// Cantidad fija de pedidos por página en la vista de tabla.
const PedidosPorPagina = 5

// Consulta describe filtro, búsqueda, orden y página de la lista.
type Consulta struct {
	// "todos" o un estado concreto
	Estado string
	// Término de búsqueda libre
	Busqueda string
	// cliente | producto | id | monto | todos
	Categoria string
	// fecha_pedido | total | cliente; vacío repite el orden anterior
	OrdenarPor string
	// asc | desc; vacío alterna si se repite el campo anterior
	Direccion string
	Pagina    int
}

// Pagina es el resultado paginado de la lista.
type Pagina struct {
	Pedidos      []model.Pedido `json:"pedidos"`
	Total        int            `json:"total"`
	Pagina       int            `json:"pagina"`
	TotalPaginas int            `json:"totalPaginas"`
	OrdenarPor   string         `json:"ordenarPor"`
	Direccion    string         `json:"direccion"`
}

// PedidoService mantiene la colección de pedidos en memoria como fuente
// para la tabla y el kanban. La copia local se refresca desde el
// repositorio al cargar y después de cada mutación exitosa; la
// actualización local inmediata es solo una ayuda de respuesta visual,
// la recarga manda.
type PedidoService struct {
	repo   PedidoRepository
	events EventPublisher
	log    *logrus.Logger

	mu      sync.Mutex
	pedidos []model.Pedido
	// Cerrojo por pedido mientras su petición está pendiente
	actualizando map[string]bool

	// Estado del orden para alternar asc/desc al repetir campo
	campoOrden string
	dirOrden   string
}

func NewPedidoService(repo PedidoRepository, events EventPublisher, log *logrus.Logger) *PedidoService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &PedidoService{
		repo:         repo,
		events:       events,
		log:          log,
		actualizando: make(map[string]bool),
		campoOrden:   "fecha_pedido",
		dirOrden:     "desc",
	}
}

// Detalle trae el pedido completo desde el repositorio (modal de detalle).
func (s *PedidoService) Detalle(ctx context.Context, id string) (*model.Pedido, error) {
	return s.repo.FindByID(ctx, id)
}

// Crear registra un pedido desde el back office (formulario de pedidos).
// Los totales del payload ya vienen calculados por el armador.
func (s *PedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) (*model.Pedido, error) {
	pedido, err := s.repo.Create(ctx, req)
	if err != nil {
		s.log.WithError(err).Warn("error creando pedido desde back office")
		return nil, err
	}
	s.events.OrderPlaced(ctx, pedido)
	if err := s.Recargar(ctx); err != nil {
		s.log.WithError(err).Warn("la recarga posterior a la creación falló")
	}
	return pedido, nil
}

// Recargar reemplaza la copia local con lo que devuelva el repositorio.
// Si la recarga falla la lista anterior queda tal cual.
func (s *PedidoService) Recargar(ctx context.Context) error {
	pedidos, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithError(err).Error("error al cargar los pedidos")
		return err
	}
	s.mu.Lock()
	s.pedidos = pedidos
	s.mu.Unlock()
	return nil
}

// Pedidos devuelve una copia de la colección local.
func (s *PedidoService) Pedidos() []model.Pedido {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Pedido, len(s.pedidos))
	copy(out, s.pedidos)
	return out
}

func (s *PedidoService) buscarPorID(id string) *model.Pedido {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.pedidos {
		if s.pedidos[i].ID == id {
			p := s.pedidos[i]
			return &p
		}
	}
	return nil
}

// coincide aplica la búsqueda libre sobre un pedido según la categoría.
func coincide(p *model.Pedido, termino, categoria string) bool {
	if strings.TrimSpace(termino) == "" {
		return true
	}
	t := strings.ToLower(termino)

	porCliente := strings.Contains(strings.ToLower(p.NombreCliente()), t)
	porProducto := false
	for _, l := range p.Productos {
		if strings.Contains(strings.ToLower(l.Nombre), t) {
			porProducto = true
			break
		}
	}
	porID := strings.Contains(strings.ToLower(p.ID), t)
	// Búsqueda por monto aproximada: el término aparece en el total,
	// con o sin separadores de miles
	porMonto := strings.Contains(money.Format(p.Total), termino) ||
		strings.Contains(money.Format(p.Total), strings.ReplaceAll(termino, ".", "")) ||
		strings.Contains(strings.ReplaceAll(money.Format(p.Total), ".", ""), strings.ReplaceAll(termino, ".", ""))

	switch categoria {
	case "cliente":
		return porCliente
	case "producto":
		return porProducto
	case "id":
		return porID
	case "monto":
		return porMonto
	default:
		return porCliente || porProducto || porID || porMonto ||
			strings.Contains(strings.ToLower(p.DireccionEnvio), t)
	}
}

// filtrados aplica filtro de estado + búsqueda y ordena. Se llama con
// el lock tomado solo para copiar; el resto trabaja sobre la copia.
func (s *PedidoService) filtrados(q Consulta) []model.Pedido {
	todos := s.Pedidos()

	var out []model.Pedido
	for i := range todos {
		p := todos[i]
		if q.Estado != "" && q.Estado != "todos" && string(p.Estado) != q.Estado {
			continue
		}
		if !coincide(&p, q.Busqueda, q.Categoria) {
			continue
		}
		out = append(out, p)
	}

	campo, dir := s.resolverOrden(q)
	ordenar(out, campo, dir)
	return out
}

// resolverOrden decide campo y dirección. Repetir el mismo campo sin
// dirección explícita alterna asc/desc, igual que el encabezado de la
// tabla.
func (s *PedidoService) resolverOrden(q Consulta) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campo := q.OrdenarPor
	if campo == "" {
		campo = s.campoOrden
	}
	dir := q.Direccion
	if dir == "" {
		if campo == s.campoOrden {
			if s.dirOrden == "asc" {
				dir = "desc"
			} else {
				dir = "asc"
			}
			// Sin campo ni dirección explícitos no hay gesto del
			// usuario: se conserva el orden vigente
			if q.OrdenarPor == "" {
				dir = s.dirOrden
			}
		} else {
			dir = "asc"
		}
	}
	s.campoOrden = campo
	s.dirOrden = dir
	return campo, dir
}

func ordenar(pedidos []model.Pedido, campo, dir string) {
	asc := dir != "desc"
	sort.SliceStable(pedidos, func(i, j int) bool {
		a, b := &pedidos[i], &pedidos[j]
		var menor bool
		switch campo {
		case "total":
			menor = a.Total < b.Total
		case "cliente":
			menor = strings.ToLower(a.NombreCliente()) < strings.ToLower(b.NombreCliente())
		default: // fecha_pedido
			menor = a.FechaPedido.Before(b.FechaPedido)
		}
		if asc {
			return menor
		}
		return !menor
	})
}

// Listar devuelve la página pedida sobre el conjunto filtrado. La página
// se ajusta hacia abajo cuando el conjunto se achica por debajo del
// inicio de la página actual.
func (s *PedidoService) Listar(q Consulta) Pagina {
	filtrados := s.filtrados(q)

	total := len(filtrados)
	totalPaginas := (total + PedidosPorPagina - 1) / PedidosPorPagina
	if totalPaginas == 0 {
		totalPaginas = 1
	}

	pagina := q.Pagina
	if pagina < 1 {
		pagina = 1
	}
	if pagina > totalPaginas {
		pagina = totalPaginas
	}

	inicio := (pagina - 1) * PedidosPorPagina
	fin := inicio + PedidosPorPagina
	if fin > total {
		fin = total
	}

	s.mu.Lock()
	campo, dir := s.campoOrden, s.dirOrden
	s.mu.Unlock()

	return Pagina{
		Pedidos:      filtrados[inicio:fin],
		Total:        total,
		Pagina:       pagina,
		TotalPaginas: totalPaginas,
		OrdenarPor:   campo,
		Direccion:    dir,
	}
}

// Kanban agrupa el conjunto filtrado por estado, columnas en el orden
// fijo del tablero.
func (s *PedidoService) Kanban(q Consulta) map[model.Estado][]model.Pedido {
	filtrados := s.filtrados(q)

	columnas := make(map[model.Estado][]model.Pedido, len(model.Estados))
	for _, e := range model.Estados {
		columnas[e] = []model.Pedido{}
	}
	for _, p := range filtrados {
		columnas[p.Estado] = append(columnas[p.Estado], p)
	}
	return columnas
}

// bloquear marca el pedido como "actualizando" mientras su petición está
// pendiente; un segundo cambio sobre el mismo pedido se rechaza.
func (s *PedidoService) bloquear(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.actualizando[id] {
		return ErrActualizacionEnCurso
	}
	s.actualizando[id] = true
	return nil
}

func (s *PedidoService) desbloquear(id string) {
	s.mu.Lock()
	delete(s.actualizando, id)
	s.mu.Unlock()
}

// CambiarEstado es el disparador explícito de transición. Con destino
// vacío y una única transición permitida se aplica esa sin confirmación
// adicional; con más de una, el destino debe venir indicado.
func (s *PedidoService) CambiarEstado(ctx context.Context, id string, destino model.Estado) error {
	pedido := s.buscarPorID(id)
	if pedido == nil {
		return ErrPedidoNoEncontrado
	}

	if destino == "" {
		permitidas := TransicionesPermitidas(pedido.Estado)
		if len(permitidas) != 1 {
			return ErrTransicionInvalida
		}
		destino = permitidas[0]
	}

	// La guarda corre antes de cualquier llamada de red
	if err := CanTransition(pedido.Estado, destino); err != nil {
		return err
	}
	return s.aplicarTransicion(ctx, pedido, destino)
}

// Mover es el disparador del kanban: arrastrar la tarjeta a otra columna
// pide la transición hacia el estado de esa columna. Soltar en la misma
// columna es inerte; un arrastre no permitido no mueve nada en lo local
// ni genera llamada al repositorio.
func (s *PedidoService) Mover(ctx context.Context, id string, columna model.Estado) error {
	pedido := s.buscarPorID(id)
	if pedido == nil {
		return ErrPedidoNoEncontrado
	}
	if pedido.Estado == columna {
		return nil
	}
	if err := CanTransition(pedido.Estado, columna); err != nil {
		return err
	}
	return s.aplicarTransicion(ctx, pedido, columna)
}

// aplicarTransicion hace la llamada al repositorio, refleja el cambio en
// la copia local y dispara la recarga completa. El fracaso del
// repositorio deja la lista local intacta.
func (s *PedidoService) aplicarTransicion(ctx context.Context, pedido *model.Pedido, destino model.Estado) error {
	if err := s.bloquear(pedido.ID); err != nil {
		return err
	}
	defer s.desbloquear(pedido.ID)

	if err := s.repo.ChangeStatus(ctx, pedido.ID, destino); err != nil {
		s.log.WithError(err).WithField("pedido_id", pedido.ID).Warn("error al cambiar estado")
		return err
	}

	// Actualización local inmediata; la recarga posterior es la
	// autoritativa
	s.mu.Lock()
	for i := range s.pedidos {
		if s.pedidos[i].ID == pedido.ID {
			s.pedidos[i].Estado = destino
		}
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"pedido_id": pedido.ID,
		"estado":    destino.Etiqueta(),
	}).Info("estado del pedido cambiado")

	s.events.OrderStatusChanged(ctx, pedido.ID, destino)

	if err := s.Recargar(ctx); err != nil {
		// La mutación ya quedó aplicada; la lista previa sigue visible
		s.log.WithError(err).Warn("la recarga posterior al cambio falló")
	}
	return nil
}

// Actualizar edita un pedido. Los subtotales y el total se recalculan
// siempre desde cantidad y precio, nunca se arrastran.
func (s *PedidoService) Actualizar(ctx context.Context, id string, req dto.ActualizarPedidoRequest) (*model.Pedido, error) {
	pedido := s.buscarPorID(id)
	if pedido == nil {
		return nil, ErrPedidoNoEncontrado
	}
	if !PuedeEditar(pedido) {
		return nil, ErrPedidoTerminado
	}
	if err := s.bloquear(id); err != nil {
		return nil, err
	}
	defer s.desbloquear(id)

	actualizado, err := s.repo.Update(ctx, id, req)
	if err != nil {
		s.log.WithError(err).WithField("pedido_id", id).Warn("error al actualizar pedido")
		return nil, err
	}

	if err := s.Recargar(ctx); err != nil {
		s.log.WithError(err).Warn("la recarga posterior a la edición falló")
	}
	return actualizado, nil
}

// Eliminar borra un pedido. Un pedido terminado se rechaza acá mismo,
// antes de cualquier llamada de red (el backend también lo rechaza).
func (s *PedidoService) Eliminar(ctx context.Context, id string) error {
	pedido := s.buscarPorID(id)
	if pedido == nil {
		return ErrPedidoNoEncontrado
	}
	if !PuedeEditar(pedido) {
		return ErrPedidoTerminado
	}
	if err := s.bloquear(id); err != nil {
		return err
	}
	defer s.desbloquear(id)

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.WithError(err).WithField("pedido_id", id).Warn("error al eliminar pedido")
		return err
	}

	s.mu.Lock()
	var rest []model.Pedido
	for _, p := range s.pedidos {
		if p.ID != id {
			rest = append(rest, p)
		}
	}
	s.pedidos = rest
	s.mu.Unlock()

	s.log.WithField("pedido_id", id).Info("pedido eliminado")

	if err := s.Recargar(ctx); err != nil {
		s.log.WithError(err).Warn("la recarga posterior a la eliminación falló")
	}
	return nil
}

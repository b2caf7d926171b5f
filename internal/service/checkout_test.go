package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"pedidos-backoffice/internal/cart"
	"pedidos-backoffice/internal/dto"
	"pedidos-backoffice/internal/model"
)

// fakeRepo acumula pedidos en memoria y cuenta llamadas.
type fakeRepo struct {
	mu       sync.Mutex
	pedidos  []model.Pedido
	creates  int
	patches  int
	deletes  int
	failWith error
	// bloquea Create hasta que se cierre, para simular una petición en vuelo
	hold chan struct{}
	// se cierra cuando Create arranca
	started chan struct{}
	seq     int
}

func (f *fakeRepo) List(ctx context.Context) ([]model.Pedido, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]model.Pedido, len(f.pedidos))
	copy(out, f.pedidos)
	return out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*model.Pedido, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pedidos {
		if f.pedidos[i].ID == id {
			p := f.pedidos[i]
			return &p, nil
		}
	}
	return nil, errors.New("pedido no encontrado")
}

func (f *fakeRepo) Create(ctx context.Context, req dto.CrearPedidoRequest) (*model.Pedido, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.hold != nil {
		<-f.hold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.seq++
	p := model.Pedido{
		ID:                 "ped-" + string(rune('0'+f.seq)),
		IDCliente:          req.IDCliente,
		DocumentoIdentidad: req.DocumentoIdentidad,
		DireccionEnvio:     req.DireccionEnvio,
		Total:              req.Total,
		Estado:             model.EstadoPendiente,
		FechaPedido:        time.Now(),
	}
	for _, l := range req.Productos {
		p.Productos = append(p.Productos, model.LineaPedido{
			ProductoID:     l.IDProducto,
			Nombre:         l.Nombre,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       int64(l.Cantidad) * l.PrecioUnitario,
		})
	}
	f.pedidos = append(f.pedidos, p)
	return &p, nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, req dto.ActualizarPedidoRequest) (*model.Pedido, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.pedidos {
		if f.pedidos[i].ID == id {
			f.pedidos[i].DireccionEnvio = req.DireccionEnvio
			p := f.pedidos[i]
			return &p, nil
		}
	}
	return nil, errors.New("pedido no encontrado")
}

func (f *fakeRepo) ChangeStatus(ctx context.Context, id string, estado model.Estado) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches++
	if f.failWith != nil {
		return f.failWith
	}
	for i := range f.pedidos {
		if f.pedidos[i].ID == id {
			f.pedidos[i].Estado = estado
			return nil
		}
	}
	return errors.New("pedido no encontrado")
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.failWith != nil {
		return f.failWith
	}
	var rest []model.Pedido
	for _, p := range f.pedidos {
		if p.ID != id {
			rest = append(rest, p)
		}
	}
	f.pedidos = rest
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func formValido() dto.CheckoutForm {
	return dto.CheckoutForm{
		NombreCompleto:     "Ana Pérez",
		DocumentoIdentidad: "1020304050",
		DireccionEnvio:     "Calle 10 #5-23",
		Telefono:           "3001234567",
		Email:              "ana@example.com",
	}
}

func TestValidarCamposObligatorios(t *testing.T) {
	errs := Validar(dto.CheckoutForm{})
	for _, campo := range []string{"nombreCompleto", "documentoIdentidad", "direccion_envio", "telefono", "email"} {
		if errs[campo] == "" {
			t.Errorf("expected error for %s", campo)
		}
	}

	// Con cliente registrado el documento deja de ser obligatorio
	form := formValido()
	form.DocumentoIdentidad = ""
	form.IDCliente = "cli-1"
	if errs := Validar(form); errs["documentoIdentidad"] != "" {
		t.Errorf("documento must not be required for registered client: %v", errs)
	}
}

func TestValidarTelefonoYEmail(t *testing.T) {
	form := formValido()
	form.Telefono = "12345"
	if errs := Validar(form); errs["telefono"] != "Debe tener 10 dígitos" {
		t.Errorf("unexpected telefono error: %q", errs["telefono"])
	}

	form = formValido()
	form.Email = "sin-arroba"
	if errs := Validar(form); errs["email"] != "Correo inválido" {
		t.Errorf("unexpected email error: %q", errs["email"])
	}

	// Espacios alrededor no invalidan
	form = formValido()
	form.NombreCompleto = "  Ana Pérez  "
	if errs := Validar(form); len(errs) != 0 {
		t.Errorf("expected valid form, got %v", errs)
	}
}

func TestArmarPayloadIdentidadExcluyente(t *testing.T) {
	c := model.Cart{Items: []model.CartItem{{ID: "p1", Nombre: "Café", Precio: 8000, Cantidad: 3}}}

	form := formValido()
	form.IDCliente = "cli-9"
	req := ArmarPayload(c, form)
	if req.IDCliente != "cli-9" || req.DocumentoIdentidad != "" {
		t.Errorf("registered identity must win: %+v", req)
	}

	form.IDCliente = ""
	req = ArmarPayload(c, form)
	if req.IDCliente != "" || req.DocumentoIdentidad != "1020304050" {
		t.Errorf("documento fallback expected: %+v", req)
	}
	if req.Total != 24000 {
		t.Errorf("total = %d, want 24000", req.Total)
	}
}

func TestEnviarEscenarioCompleto(t *testing.T) {
	repo := &fakeRepo{}
	carts := cart.NewStore()
	svc := NewCheckoutService(carts, repo, nil, testLogger())

	ses := carts.NuevaSesion()
	carts.Dispatch(ses, cart.AgregarItem{Producto: model.Producto{ID: "1", Nombre: "Almuerzo", Precio: 10000}})
	carts.Dispatch(ses, cart.Incrementar{ProductoID: "1"})

	pedido, err := svc.Enviar(context.Background(), ses, formValido())
	if err != nil {
		t.Fatalf("Enviar: %v", err)
	}
	if pedido.Total != 20000 {
		t.Errorf("payload total = %d, want 20000", pedido.Total)
	}
	if pedido.Estado != model.EstadoPendiente {
		t.Errorf("new pedido should be pendiente, got %s", pedido.Estado)
	}
	if items := carts.Get(ses).Items; len(items) != 0 {
		t.Errorf("cart should be empty after success, got %d lines", len(items))
	}
}

func TestEnviarFormularioInvalidoNoLlegaALaRed(t *testing.T) {
	repo := &fakeRepo{}
	carts := cart.NewStore()
	svc := NewCheckoutService(carts, repo, nil, testLogger())

	ses := carts.NuevaSesion()
	carts.Dispatch(ses, cart.AgregarItem{Producto: model.Producto{ID: "1", Nombre: "Almuerzo", Precio: 10000}})

	_, err := svc.Enviar(context.Background(), ses, dto.CheckoutForm{})
	var ev *ErrorValidacion
	if !errors.As(err, &ev) {
		t.Fatalf("expected ErrorValidacion, got %v", err)
	}
	if repo.creates != 0 {
		t.Errorf("validation errors must block the network call, creates=%d", repo.creates)
	}
}

func TestEnviarFalloDejaElCarritoIntacto(t *testing.T) {
	repo := &fakeRepo{failWith: errors.New("stock insuficiente para el producto 1")}
	carts := cart.NewStore()
	svc := NewCheckoutService(carts, repo, nil, testLogger())

	ses := carts.NuevaSesion()
	carts.Dispatch(ses, cart.AgregarItem{Producto: model.Producto{ID: "1", Nombre: "Almuerzo", Precio: 10000}})

	_, err := svc.Enviar(context.Background(), ses, formValido())
	if err == nil || err.Error() != "stock insuficiente para el producto 1" {
		t.Fatalf("server message must surface verbatim, got %v", err)
	}
	if items := carts.Get(ses).Items; len(items) != 1 {
		t.Errorf("cart must stay untouched on failure, got %d lines", len(items))
	}
}

func TestEnviarCarritoVacio(t *testing.T) {
	repo := &fakeRepo{}
	carts := cart.NewStore()
	svc := NewCheckoutService(carts, repo, nil, testLogger())

	_, err := svc.Enviar(context.Background(), carts.NuevaSesion(), formValido())
	if err != ErrCarritoVacio {
		t.Fatalf("expected ErrCarritoVacio, got %v", err)
	}
}

func TestEnviarDobleClicGeneraUnSoloCreate(t *testing.T) {
	repo := &fakeRepo{hold: make(chan struct{}), started: make(chan struct{})}
	carts := cart.NewStore()
	svc := NewCheckoutService(carts, repo, nil, testLogger())

	ses := carts.NuevaSesion()
	carts.Dispatch(ses, cart.AgregarItem{Producto: model.Producto{ID: "1", Nombre: "Almuerzo", Precio: 10000}})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Enviar(context.Background(), ses, formValido())
		done <- err
	}()

	// Esperar a que el primer envío quede en vuelo dentro de Create
	<-repo.started

	// Segundo clic mientras el primero sigue pendiente
	_, segundo := svc.Enviar(context.Background(), ses, formValido())
	close(repo.hold)

	if segundo != ErrEnvioEnCurso {
		t.Errorf("second click should be refused, got %v", segundo)
	}
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if repo.creates != 1 {
		t.Errorf("exactly one create expected, got %d", repo.creates)
	}
}

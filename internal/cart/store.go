package cart

import (
	"sync"

	"github.com/google/uuid"

	"pedidos-backoffice/internal/model"
)

// Store guarda los carritos por sesión de navegación. Solo memoria de
// proceso: al reiniciar el servicio los carritos se pierden, igual que
// al recargar la página en el diseño original.
type Store struct {
	mu     sync.Mutex
	cartas map[string]model.Cart
}

func NewStore() *Store {
	return &Store{cartas: make(map[string]model.Cart)}
}

// NuevaSesion crea una sesión con carrito vacío y devuelve su id.
func (s *Store) NuevaSesion() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.cartas[id] = model.Cart{}
	s.mu.Unlock()
	return id
}

// Get devuelve el carrito de la sesión (vacío si no existe).
func (s *Store) Get(sessionID string) model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartas[sessionID]
}

// Dispatch aplica un evento al carrito de la sesión y devuelve el
// estado resultante.
func (s *Store) Dispatch(sessionID string, ev Event) model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := Reduce(s.cartas[sessionID], ev)
	s.cartas[sessionID] = next
	return next
}

package synccore

import "sync"

// Subscriber recibe cada transición de estado (anterior y siguiente).
// Se invoca dentro de Dispatch, en orden; no debe despachar acciones.
type Subscriber func(prev, next State)

// Store contenedor del estado. Dispatch serializa las transiciones.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]Subscriber
	nextID int
}

// NewStore crea el store con un estado inicial.
func NewStore(initial State) *Store {
	return &Store{state: initial, subs: make(map[int]Subscriber)}
}

// State devuelve el estado actual.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch aplica la acción con Reduce, notifica a los suscriptores y devuelve el estado nuevo.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	next := Reduce(prev, action)
	s.state = next
	for _, id := range s.order() {
		s.subs[id](prev, next)
	}
	return next
}

// Subscribe registra un suscriptor; la función devuelta lo da de baja.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// order IDs de suscriptores en orden de registro.
func (s *Store) order() []int {
	ids := make([]int, 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if _, ok := s.subs[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

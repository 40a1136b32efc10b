package order

import "sync"

// Store keeps in-flight orders keyed by order id. Every operation runs as a
// whole under the store mutex, so concurrent read-modify-delete on the same
// id never interleaves; timer callbacks and user actions may race freely.
type Store struct {
	mu     sync.Mutex
	orders map[string]*Order
}

// NewStore returns an empty order store.
func NewStore() *Store {
	return &Store{orders: make(map[string]*Order)}
}

// Create inserts a new order record.
func (s *Store) Create(o Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; exists {
		return ErrDuplicateID
	}
	clone := o
	s.orders[o.ID] = &clone
	return nil
}

// Get returns a copy of the order, if present.
func (s *Store) Get(id string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

// Transition atomically moves the order from one state to the next and
// returns the updated record. It reports false when the order is gone or is
// not in the expected state, which callers treat as a lost race, not an error.
func (s *Store) Transition(id string, from, to State) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok || o.State != from {
		return Order{}, false
	}
	o.State = to
	return *o, true
}

// Remove deletes the order and returns its final value. A missing order
// reports false; double removal is an expected race.
func (s *Store) Remove(id string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, false
	}
	delete(s.orders, id)
	return *o, true
}

// Len reports the number of in-flight orders.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

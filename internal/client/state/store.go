package state

import "sync"

// Listener observes every state produced by Dispatch.
type Listener func(State)

// Store holds the client state. The only way to change it is Dispatch.
type Store struct {
	mu        sync.Mutex
	state     State
	nextID    int
	listeners map[int]Listener
}

func NewStore() *Store {
	return &Store{
		state:     Initial(),
		listeners: make(map[int]Listener),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces action into the state and notifies listeners outside the lock.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	current := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(current)
	}
	return current
}

// Subscribe registers l and returns a function removing it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

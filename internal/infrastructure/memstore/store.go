// Package memstore implementa los repositorios en memoria.
// Sirve para pruebas y para levantar el API sin base de datos (STORAGE_DRIVER=memory).
package memstore

import (
	"sync"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// Store guarda todas las colecciones. mu protege los mapas; tx serializa las escrituras
// para que una transacción fallida pueda restaurar el estado previo sin pisar a otra.
type Store struct {
	tx sync.Mutex
	mu sync.RWMutex

	items      map[string]*entity.Item
	categories map[string]*entity.Category
	locations  map[string]*entity.Location
	users      map[string]*entity.User
	movements  map[entity.MovementKind]map[string]*entity.Movement
	order      map[string]uint64 // orden de inserción de cada movimiento
	seq        uint64
}

// New crea un store vacío.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.items = map[string]*entity.Item{}
	s.categories = map[string]*entity.Category{}
	s.locations = map[string]*entity.Location{}
	s.users = map[string]*entity.User{}
	s.movements = map[entity.MovementKind]map[string]*entity.Movement{}
	for _, k := range entity.MovementKinds {
		s.movements[k] = map[string]*entity.Movement{}
	}
	s.order = map[string]uint64{}
	s.seq = 0
}

// state copia profunda de las colecciones para deshacer una transacción.
type state struct {
	items      map[string]*entity.Item
	categories map[string]*entity.Category
	locations  map[string]*entity.Location
	users      map[string]*entity.User
	movements  map[entity.MovementKind]map[string]*entity.Movement
	order      map[string]uint64
	seq        uint64
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := state{
		items:      make(map[string]*entity.Item, len(s.items)),
		categories: make(map[string]*entity.Category, len(s.categories)),
		locations:  make(map[string]*entity.Location, len(s.locations)),
		users:      make(map[string]*entity.User, len(s.users)),
		movements:  make(map[entity.MovementKind]map[string]*entity.Movement, len(s.movements)),
		order:      make(map[string]uint64, len(s.order)),
		seq:        s.seq,
	}
	for id, v := range s.items {
		st.items[id] = v.Clone()
	}
	for id, v := range s.categories {
		c := *v
		st.categories[id] = &c
	}
	for id, v := range s.locations {
		l := *v
		st.locations[id] = &l
	}
	for id, v := range s.users {
		u := *v
		st.users[id] = &u
	}
	for kind, coll := range s.movements {
		cp := make(map[string]*entity.Movement, len(coll))
		for id, m := range coll {
			cp[id] = m.Clone()
		}
		st.movements[kind] = cp
	}
	for id, n := range s.order {
		st.order[id] = n
	}
	return st
}

func (s *Store) restore(st state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = st.items
	s.categories = st.categories
	s.locations = st.locations
	s.users = st.users
	s.movements = st.movements
	s.order = st.order
	s.seq = st.seq
}

// Items devuelve el repositorio de items fuera de transacción.
func (s *Store) Items() *ItemRepository { return &ItemRepository{s: s} }

// Movements devuelve el repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepository { return &MovementRepository{s: s} }

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }

func (s *Store) Locations() *LocationRepository { return &LocationRepository{s: s} }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// writeLock toma el candado de transacción salvo que el repositorio ya corra dentro de una.
func (s *Store) writeLock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.tx.Lock()
	return s.tx.Unlock
}

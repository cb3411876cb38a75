package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/container-tracker/internal/application/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

var _ container.TxRunner = (*Store)(nil)

// Store almacenamiento en memoria de contenedores y del ledger de movimientos.
// Run serializa las transacciones y trabaja sobre una copia: si fn falla la copia se descarta.
type Store struct {
	mu   sync.Mutex
	data *state
}

type state struct {
	containers map[string]*entity.Container
	moves      map[string]*entity.Movement
	shipments  map[string]*entity.Shipment
	products   map[string]*entity.Product
	locations  map[string]*entity.Location
	warehouses map[string]*entity.Warehouse
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

func newState() *state {
	return &state{
		containers: make(map[string]*entity.Container),
		moves:      make(map[string]*entity.Movement),
		shipments:  make(map[string]*entity.Shipment),
		products:   make(map[string]*entity.Product),
		locations:  make(map[string]*entity.Location),
		warehouses: make(map[string]*entity.Warehouse),
	}
}

func (s *state) clone() *state {
	cp := newState()
	for k, v := range s.containers {
		cp.containers[k] = v.Clone()
	}
	for k, v := range s.moves {
		cp.moves[k] = v.Clone()
	}
	for k, v := range s.shipments {
		sh := *v
		sh.PlannedDate = copyTime(v.PlannedDate)
		cp.shipments[k] = &sh
	}
	// catálogo: solo lectura dentro de las transacciones
	for k, v := range s.products {
		cp.products[k] = v
	}
	for k, v := range s.locations {
		cp.locations[k] = v
	}
	for k, v := range s.warehouses {
		cp.warehouses[k] = v
	}
	return cp
}

// Run ejecuta fn con repositorios sobre una copia del estado y la confirma si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(r container.Repos) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(reposFor(work)); err != nil {
		return err
	}
	s.data = work
	return nil
}

func reposFor(st *state) container.Repos {
	return container.Repos{
		Containers: &ContainerRepo{st: st},
		Ledger:     &Ledger{st: st},
		Shipments:  &ShipmentRepo{st: st},
		Products:   &ProductRepo{st: st},
		Locations:  &LocationRepo{st: st},
		Warehouses: &WarehouseRepo{st: st},
	}
}

// AddProduct carga un producto en el catálogo.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = &p
}

// AddLocation carga una ubicación.
func (s *Store) AddLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.locations[l.ID] = &l
}

// AddWarehouse carga una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.warehouses[w.ID] = &w
}

// AddShipment carga un albarán.
func (s *Store) AddShipment(sh entity.Shipment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.shipments[sh.ID] = &sh
}

// AddMovement carga un movimiento en el ledger.
func (s *Store) AddMovement(m entity.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.moves[m.ID] = m.Clone()
}

// AddContainer carga un contenedor tal cual.
func (s *Store) AddContainer(c entity.Container) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.containers[c.ID] = c.Clone()
}

// Container devuelve una copia del contenedor confirmado (nil si no existe).
func (s *Store) Container(id string) *entity.Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.containers[id].Clone()
}

// Movement devuelve una copia del movimiento confirmado (nil si no existe).
func (s *Store) Movement(id string) *entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.moves[id].Clone()
}

// Shipment devuelve una copia del albarán confirmado (nil si no existe).
func (s *Store) Shipment(id string) *entity.Shipment {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.data.shipments[id]
	if !ok {
		return nil
	}
	cp := *sh
	cp.PlannedDate = copyTime(sh.PlannedDate)
	return &cp
}

// MovementCount número de movimientos en el ledger.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.moves)
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/container-tracker/internal/domain"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
	"github.com/jhoicas/container-tracker/internal/domain/repository"
)

var (
	_ repository.ContainerRepository = (*ContainerRepo)(nil)
	_ repository.MovementLedger      = (*Ledger)(nil)
	_ repository.ShipmentRepository  = (*ShipmentRepo)(nil)
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.LocationRepository  = (*LocationRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ContainerRepo contenedores en memoria.
type ContainerRepo struct {
	st *state
}

// Create persiste un contenedor nuevo.
func (r *ContainerRepo) Create(_ context.Context, c *entity.Container) error {
	if _, ok := r.st.containers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.containers[c.ID] = c.Clone()
	return nil
}

// GetByID devuelve una copia del contenedor o (nil, nil).
func (r *ContainerRepo) GetByID(_ context.Context, id string) (*entity.Container, error) {
	return r.st.containers[id].Clone(), nil
}

// GetForUpdate igual que GetByID: Store.Run ya serializa las transacciones.
func (r *ContainerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Container, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza el contenedor.
func (r *ContainerRepo) Update(_ context.Context, c *entity.Container) error {
	if _, ok := r.st.containers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.containers[c.ID] = c.Clone()
	return nil
}

// List lista por fecha de creación; state vacío no filtra.
func (r *ContainerRepo) List(_ context.Context, state entity.ContainerState, limit, offset int) ([]*entity.Container, error) {
	var all []*entity.Container
	for _, c := range r.st.containers {
		if state == "" || c.State == state {
			all = append(all, c.Clone())
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Delete elimina el contenedor.
func (r *ContainerRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.st.containers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.containers, id)
	return nil
}

// FindByIncomingMove busca el contenedor que tiene moveID como entrada.
func (r *ContainerRepo) FindByIncomingMove(_ context.Context, moveID string) (string, error) {
	for _, c := range r.st.containers {
		for _, id := range c.IncomingMoveIDs {
			if id == moveID {
				return c.ID, nil
			}
		}
	}
	return "", nil
}

// Ledger movimientos en memoria.
type Ledger struct {
	st *state
}

// Find devuelve los IDs que cumplen el filtro, ordenados.
func (l *Ledger) Find(_ context.Context, f entity.MovementFilter) ([]string, error) {
	var ids []string
	for _, m := range l.st.moves {
		if f.ContainerID != "" && m.ContainerID != f.ContainerID {
			continue
		}
		if f.ShipmentID != "" && m.ShipmentID != f.ShipmentID {
			continue
		}
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if len(f.States) > 0 && !hasState(f.States, m.State) {
			continue
		}
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// Read devuelve copias en el orden de ids.
func (l *Ledger) Read(_ context.Context, ids []string) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0, len(ids))
	for _, id := range ids {
		m, ok := l.st.moves[id]
		if !ok {
			return nil, fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
		}
		out = append(out, m.Clone())
	}
	return out, nil
}

// Create añade un movimiento con ID nuevo.
func (l *Ledger) Create(_ context.Context, m *entity.Movement) (string, error) {
	cp := m.Clone()
	cp.ID = uuid.New().String()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	l.st.moves[cp.ID] = cp
	return cp.ID, nil
}

// Copy duplica el movimiento id aplicando overrides.
func (l *Ledger) Copy(ctx context.Context, id string, overrides entity.MovementPatch) (string, error) {
	src, ok := l.st.moves[id]
	if !ok {
		return "", fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
	}
	cp := src.Clone()
	cp.CreatedAt = time.Time{}
	overrides.Apply(cp)
	return l.Create(ctx, cp)
}

// Write aplica patch a todos los ids.
func (l *Ledger) Write(_ context.Context, ids []string, patch entity.MovementPatch) error {
	for _, id := range ids {
		m, ok := l.st.moves[id]
		if !ok {
			return fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
		}
		patch.Apply(m)
	}
	return nil
}

// Delete elimina los movimientos.
func (l *Ledger) Delete(_ context.Context, ids []string) error {
	for _, id := range ids {
		if _, ok := l.st.moves[id]; !ok {
			return fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
		}
		delete(l.st.moves, id)
	}
	return nil
}

// MarkDone pasa a done los movimientos pendientes.
func (l *Ledger) MarkDone(_ context.Context, ids []string) error {
	for _, id := range ids {
		m, ok := l.st.moves[id]
		if !ok {
			return fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
		}
		if m.State == entity.MoveDone || m.State == entity.MoveCancel {
			continue
		}
		m.State = entity.MoveDone
	}
	return nil
}

func hasState(states []entity.MoveState, s entity.MoveState) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

// ShipmentRepo albaranes en memoria.
type ShipmentRepo struct {
	st *state
}

// GetByID devuelve el albarán o (nil, nil).
func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	sh, ok := r.st.shipments[id]
	if !ok {
		return nil, nil
	}
	cp := *sh
	return &cp, nil
}

// GetByIDs devuelve los albaranes encontrados indexados por ID.
func (r *ShipmentRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Shipment, error) {
	out := make(map[string]*entity.Shipment, len(ids))
	for _, id := range ids {
		sh, _ := r.GetByID(ctx, id)
		if sh != nil {
			out[id] = sh
		}
	}
	return out, nil
}

// UpdatePlannedDate fija la fecha planificada.
func (r *ShipmentRepo) UpdatePlannedDate(_ context.Context, id string, date time.Time) error {
	sh, ok := r.st.shipments[id]
	if !ok {
		return domain.ErrNotFound
	}
	sh.PlannedDate = &date
	return nil
}

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	st *state
}

// GetByID devuelve el producto o (nil, nil).
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetByIDs devuelve los productos encontrados indexados por ID.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, _ := r.GetByID(ctx, id)
		if p != nil {
			out[id] = p
		}
	}
	return out, nil
}

// LocationRepo ubicaciones en memoria.
type LocationRepo struct {
	st *state
}

// GetByID devuelve la ubicación o (nil, nil).
func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.st.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct {
	st *state
}

// GetByID devuelve la bodega o (nil, nil).
func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

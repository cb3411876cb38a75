package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/container-tracker/internal/domain"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
	"github.com/jhoicas/container-tracker/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo albaranes sobre PostgreSQL.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

const shipmentColumns = `id, name, kind, state, planned_date, COALESCE(container_id, '')`

// GetByID obtiene el albarán; (nil, nil) si no existe.
func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	s, err := scanShipment(r.q.QueryRow(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return s, nil
}

// GetByIDs devuelve los albaranes encontrados indexados por ID.
func (r *ShipmentRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Shipment, error) {
	out := make(map[string]*entity.Shipment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get shipments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

// UpdatePlannedDate fija la fecha planificada del albarán.
func (r *ShipmentRepo) UpdatePlannedDate(ctx context.Context, id string, date time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE shipments SET planned_date = $2 WHERE id = $1`, id, date)
	if err != nil {
		return fmt.Errorf("update shipment date: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var s entity.Shipment
	var state string
	if err := row.Scan(&s.ID, &s.Name, &s.Kind, &state, &s.PlannedDate, &s.ContainerID); err != nil {
		return nil, err
	}
	s.State = entity.ShipmentState(state)
	return &s, nil
}

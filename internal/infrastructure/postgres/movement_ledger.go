package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/container-tracker/internal/domain"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
	"github.com/jhoicas/container-tracker/internal/domain/repository"
)

var _ repository.MovementLedger = (*MovementLedger)(nil)

// MovementLedger adaptador del ledger de movimientos sobre la tabla stock_moves.
type MovementLedger struct {
	q Querier
}

// NewMovementLedger construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLedger(q Querier) *MovementLedger {
	return &MovementLedger{q: q}
}

const moveColumns = `id, name, product_id, quantity, COALESCE(uom_id, ''), COALESCE(location_id, ''),
	COALESCE(location_dest_id, ''), COALESCE(shipment_id, ''), COALESCE(container_id, ''),
	COALESCE(dest_move_id, ''), state, date, created_at`

// Find devuelve los IDs que cumplen el filtro.
func (l *MovementLedger) Find(ctx context.Context, f entity.MovementFilter) ([]string, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ContainerID != "" {
		add("container_id = $%d", f.ContainerID)
	}
	if f.ShipmentID != "" {
		add("shipment_id = $%d", f.ShipmentID)
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if len(f.States) > 0 {
		states := make([]string, 0, len(f.States))
		for _, s := range f.States {
			states = append(states, string(s))
		}
		add("state = ANY($%d)", states)
	}
	query := `SELECT id FROM stock_moves`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`
	rows, err := l.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find moves: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Read devuelve los movimientos en el orden de ids; ErrNotFound si falta alguno.
func (l *MovementLedger) Read(ctx context.Context, ids []string) ([]*entity.Movement, error) {
	if len(ids) == 0 {
		return []*entity.Movement{}, nil
	}
	rows, err := l.q.Query(ctx, `SELECT `+moveColumns+` FROM stock_moves WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("read moves: %w", err)
	}
	defer rows.Close()
	byID := make(map[string]*entity.Movement, len(ids))
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*entity.Movement, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
		}
		out = append(out, m.Clone())
	}
	return out, nil
}

// Create inserta un movimiento con ID nuevo.
func (l *MovementLedger) Create(ctx context.Context, m *entity.Movement) (string, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO stock_moves (id, name, product_id, quantity, uom_id, location_id, location_dest_id,
			shipment_id, container_id, dest_move_id, state, date, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11, $12, clock_timestamp())`
	_, err := l.q.Exec(ctx, query,
		id, m.Name, m.ProductID, m.Quantity, m.UomID, m.LocationID, m.LocationDestID,
		m.ShipmentID, m.ContainerID, m.DestMoveID, string(m.State), m.Date,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", fmt.Errorf("insert move: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("insert move: %w", err)
	}
	return id, nil
}

// Copy duplica el movimiento aplicando overrides.
func (l *MovementLedger) Copy(ctx context.Context, id string, overrides entity.MovementPatch) (string, error) {
	src, err := l.Read(ctx, []string{id})
	if err != nil {
		return "", err
	}
	cp := src[0]
	overrides.Apply(cp)
	return l.Create(ctx, cp)
}

// Write aplica el patch a todos los ids en una sola sentencia.
func (l *MovementLedger) Write(ctx context.Context, ids []string, p entity.MovementPatch) error {
	if len(ids) == 0 {
		return nil
	}
	var (
		sets []string
		args = []any{ids}
	)
	set := func(col string, v any, nullable bool) {
		args = append(args, v)
		if nullable {
			sets = append(sets, fmt.Sprintf("%s = NULLIF($%d, '')", col, len(args)))
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Quantity != nil {
		set("quantity", *p.Quantity, false)
	}
	if p.LocationID != nil {
		set("location_id", *p.LocationID, true)
	}
	if p.LocationDestID != nil {
		set("location_dest_id", *p.LocationDestID, true)
	}
	if p.ShipmentID != nil {
		set("shipment_id", *p.ShipmentID, true)
	}
	if p.ContainerID != nil {
		set("container_id", *p.ContainerID, true)
	}
	if p.DestMoveID != nil {
		set("dest_move_id", *p.DestMoveID, true)
	}
	if p.State != nil {
		set("state", string(*p.State), false)
	}
	if p.Date != nil {
		set("date", *p.Date, false)
	}
	if len(sets) == 0 {
		return nil
	}
	query := `UPDATE stock_moves SET ` + strings.Join(sets, ", ") + ` WHERE id = ANY($1)`
	cmd, err := l.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("write moves: %w", err)
	}
	if int(cmd.RowsAffected()) != len(unique(ids)) {
		return fmt.Errorf("write moves: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete elimina los movimientos.
func (l *MovementLedger) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	cmd, err := l.q.Exec(ctx, `DELETE FROM stock_moves WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("delete moves: %w", err)
	}
	if int(cmd.RowsAffected()) != len(unique(ids)) {
		return fmt.Errorf("delete moves: %w", domain.ErrNotFound)
	}
	return nil
}

// MarkDone pasa a done los movimientos que no estén hechos ni cancelados.
func (l *MovementLedger) MarkDone(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := l.q.Exec(ctx,
		`UPDATE stock_moves SET state = 'done' WHERE id = ANY($1) AND state NOT IN ('done', 'cancel')`, ids)
	if err != nil {
		return fmt.Errorf("mark moves done: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var state string
	err := row.Scan(
		&m.ID, &m.Name, &m.ProductID, &m.Quantity, &m.UomID, &m.LocationID,
		&m.LocationDestID, &m.ShipmentID, &m.ContainerID,
		&m.DestMoveID, &state, &m.Date, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.State = entity.MoveState(state)
	return &m, nil
}

func unique(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/container-tracker/internal/domain"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
	"github.com/jhoicas/container-tracker/internal/domain/repository"
)

var _ repository.ContainerRepository = (*ContainerRepo)(nil)

// ContainerRepo implementación de ContainerRepository sobre PostgreSQL.
// Las entradas viven en container_incoming_moves (move_id único); las salidas se leen de stock_moves.container_id.
type ContainerRepo struct {
	q Querier
}

// NewContainerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContainerRepository(q Querier) *ContainerRepo {
	return &ContainerRepo{q: q}
}

const containerColumns = `id, name, COALESCE(sscc, ''), product_id, incoterm, COALESCE(partner_id, ''),
	COALESCE(address_id, ''), stock_location_id, destination_warehouse_id,
	etd, eta, etm, rdv, state, created_at, updated_at`

// Create persiste un contenedor nuevo con sus entradas.
func (r *ContainerRepo) Create(ctx context.Context, c *entity.Container) error {
	query := `
		INSERT INTO containers (id, name, sscc, product_id, incoterm, partner_id, address_id,
			stock_location_id, destination_warehouse_id, etd, eta, etm, rdv, state, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.SSCC, c.ProductID, c.IncotermCode, c.PartnerID, c.AddressID,
		c.StockLocationID, c.DestinationWarehouseID, c.ETD, c.ETA, c.ETM, c.RDV,
		string(c.State), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert container: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert container: %w", err)
	}
	return r.replaceIncoming(ctx, c.ID, c.IncomingMoveIDs)
}

// GetByID obtiene el contenedor; (nil, nil) si no existe.
func (r *ContainerRepo) GetByID(ctx context.Context, id string) (*entity.Container, error) {
	return r.get(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1`, id)
}

// GetForUpdate obtiene el contenedor bloqueando la fila (SELECT FOR UPDATE).
func (r *ContainerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Container, error) {
	return r.get(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1 FOR UPDATE`, id)
}

func (r *ContainerRepo) get(ctx context.Context, query, id string) (*entity.Container, error) {
	c, err := scanContainer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get container: %w", err)
	}
	if err := r.loadMoves(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update guarda cabecera, fechas, estado y entradas.
func (r *ContainerRepo) Update(ctx context.Context, c *entity.Container) error {
	query := `
		UPDATE containers SET name = $2, sscc = NULLIF($3, ''), product_id = $4, incoterm = $5,
			partner_id = NULLIF($6, ''), address_id = NULLIF($7, ''), stock_location_id = $8,
			destination_warehouse_id = $9, etd = $10, eta = $11, etm = $12, rdv = $13,
			state = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.SSCC, c.ProductID, c.IncotermCode, c.PartnerID, c.AddressID,
		c.StockLocationID, c.DestinationWarehouseID, c.ETD, c.ETA, c.ETM, c.RDV,
		string(c.State), c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update container: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.replaceIncoming(ctx, c.ID, c.IncomingMoveIDs)
}

// List lista contenedores por fecha de creación descendente; state vacío no filtra.
func (r *ContainerRepo) List(ctx context.Context, state entity.ContainerState, limit, offset int) ([]*entity.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers
		WHERE ($1 = '' OR state = $1)
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(state), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range list {
		if err := r.loadMoves(ctx, c); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Delete elimina el contenedor (las entradas se borran en cascada).
func (r *ContainerRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM containers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete container: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByIncomingMove devuelve el contenedor que tiene el movimiento como entrada.
func (r *ContainerRepo) FindByIncomingMove(ctx context.Context, moveID string) (string, error) {
	var id string
	err := r.q.QueryRow(ctx, `SELECT container_id FROM container_incoming_moves WHERE move_id = $1`, moveID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find container by move: %w", err)
	}
	return id, nil
}

func (r *ContainerRepo) replaceIncoming(ctx context.Context, containerID string, moveIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM container_incoming_moves WHERE container_id = $1`, containerID); err != nil {
		return fmt.Errorf("clear incoming moves: %w", err)
	}
	for i, moveID := range moveIDs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO container_incoming_moves (container_id, move_id, position) VALUES ($1, $2, $3)`,
			containerID, moveID, i)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.NewValidationError(containerID, domain.RuleMoveNotEligible,
					"movimiento "+moveID+" ya está asignado a otro contenedor")
			}
			if isForeignKeyViolation(err) {
				return fmt.Errorf("movimiento %s: %w", moveID, domain.ErrNotFound)
			}
			return fmt.Errorf("insert incoming move: %w", err)
		}
	}
	return nil
}

func (r *ContainerRepo) loadMoves(ctx context.Context, c *entity.Container) error {
	var err error
	c.IncomingMoveIDs, err = r.ids(ctx,
		`SELECT move_id FROM container_incoming_moves WHERE container_id = $1 ORDER BY position`, c.ID)
	if err != nil {
		return fmt.Errorf("load incoming moves: %w", err)
	}
	c.OutgoingMoveIDs, err = r.ids(ctx,
		`SELECT id FROM stock_moves WHERE container_id = $1 ORDER BY created_at, id`, c.ID)
	if err != nil {
		return fmt.Errorf("load outgoing moves: %w", err)
	}
	return nil
}

func (r *ContainerRepo) ids(ctx context.Context, query, id string) ([]string, error) {
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func scanContainer(row pgx.Row) (*entity.Container, error) {
	var c entity.Container
	var state string
	err := row.Scan(
		&c.ID, &c.Name, &c.SSCC, &c.ProductID, &c.IncotermCode, &c.PartnerID,
		&c.AddressID, &c.StockLocationID, &c.DestinationWarehouseID,
		&c.ETD, &c.ETA, &c.ETM, &c.RDV, &state, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.State = entity.ContainerState(state)
	return &c, nil
}

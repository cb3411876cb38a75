package repository

import (
	"context"

	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// MovementLedger puerto hacia el registro de movimientos de mercancía.
// El ledger es el único dueño de los movimientos; el contenedor solo guarda IDs.
type MovementLedger interface {
	Find(ctx context.Context, filter entity.MovementFilter) ([]string, error)
	// Read devuelve los movimientos en el mismo orden que ids; ErrNotFound si falta alguno.
	Read(ctx context.Context, ids []string) ([]*entity.Movement, error)
	Create(ctx context.Context, movement *entity.Movement) (string, error)
	Copy(ctx context.Context, id string, overrides entity.MovementPatch) (string, error)
	Write(ctx context.Context, ids []string, patch entity.MovementPatch) error
	Delete(ctx context.Context, ids []string) error
	// MarkDone pasa los movimientos a "done"; los ya hechos o cancelados no cambian.
	MarkDone(ctx context.Context, ids []string) error
}

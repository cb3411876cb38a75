package container

import (
	"context"
	"time"

	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// DatePushStrategy efecto secundario de escribir un contenedor sobre sus movimientos.
// Se pasa de forma explícita a cada escritura en lugar de depender de una bandera de contexto.
type DatePushStrategy interface {
	Push(ctx context.Context, r Repos, c *entity.Container) error
}

// NoDatePush no propaga nada.
type NoDatePush struct{}

// Push no hace nada.
func (NoDatePush) Push(context.Context, Repos, *entity.Container) error { return nil }

// PushDatesToMoves fuera de borrador fija la fecha de los movimientos de salida a la ETM del contenedor
// y recalcula la fecha planificada de sus albaranes como el máximo de las fechas de sus movimientos.
type PushDatesToMoves struct{}

// Push aplica la propagación.
func (PushDatesToMoves) Push(ctx context.Context, r Repos, c *entity.Container) error {
	if c.State == entity.StateDraft || c.ETM == nil || len(c.OutgoingMoveIDs) == 0 {
		return nil
	}
	etm := *c.ETM
	if err := r.Ledger.Write(ctx, c.OutgoingMoveIDs, entity.MovementPatch{Date: &etm}); err != nil {
		return err
	}
	moves, err := r.Ledger.Read(ctx, c.OutgoingMoveIDs)
	if err != nil {
		return err
	}
	seen := make(map[string]struct{})
	for _, m := range moves {
		if m.ShipmentID == "" {
			continue
		}
		if _, ok := seen[m.ShipmentID]; ok {
			continue
		}
		seen[m.ShipmentID] = struct{}{}
		if err := refreshPlannedDate(ctx, r, m.ShipmentID); err != nil {
			return err
		}
	}
	return nil
}

// StrategyFor devuelve la estrategia según la configuración CONTAINER_UPDATES_DATES.
func StrategyFor(updatesDates bool) DatePushStrategy {
	if updatesDates {
		return PushDatesToMoves{}
	}
	return NoDatePush{}
}

func refreshPlannedDate(ctx context.Context, r Repos, shipmentID string) error {
	ids, err := r.Ledger.Find(ctx, entity.MovementFilter{ShipmentID: shipmentID})
	if err != nil {
		return err
	}
	moves, err := r.Ledger.Read(ctx, ids)
	if err != nil {
		return err
	}
	var latest *time.Time
	for _, m := range moves {
		if m.Date == nil {
			continue
		}
		if latest == nil || m.Date.After(*latest) {
			d := *m.Date
			latest = &d
		}
	}
	if latest == nil {
		return nil
	}
	return r.Shipments.UpdatePlannedDate(ctx, shipmentID, *latest)
}

package container

import (
	"context"
	"fmt"

	rules "github.com/jhoicas/container-tracker/internal/domain/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// executor aplica en orden los efectos de una Decision sobre el ledger y el contenedor.
// El contenedor solo se modifica en memoria; el caller lo persiste.
type executor struct {
	r       Repos
	c       *entity.Container
	created []string
}

func newExecutor(r Repos, c *entity.Container) *executor {
	return &executor{r: r, c: c}
}

func (x *executor) apply(ctx context.Context, effects []rules.Effect) error {
	for _, e := range effects {
		if err := x.applyOne(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (x *executor) applyOne(ctx context.Context, e rules.Effect) error {
	switch e := e.(type) {
	case rules.CopyOutgoing:
		id, err := x.r.Ledger.Copy(ctx, e.SourceID, e.Overrides)
		if err != nil {
			return fmt.Errorf("copiar movimiento %s: %w", e.SourceID, err)
		}
		x.linkOutgoing(id)
	case rules.CreateOutgoing:
		mv := e.Move
		mv.ID = ""
		id, err := x.r.Ledger.Create(ctx, &mv)
		if err != nil {
			return fmt.Errorf("crear movimiento de compensación: %w", err)
		}
		x.linkOutgoing(id)
	case rules.WriteMoves:
		if len(e.IDs) == 0 {
			return nil
		}
		return x.r.Ledger.Write(ctx, e.IDs, e.Patch)
	case rules.MarkDone:
		ids := append([]string(nil), e.IDs...)
		if e.IncludeCreated {
			ids = append(ids, x.created...)
		}
		if len(ids) == 0 {
			return nil
		}
		return x.r.Ledger.MarkDone(ctx, ids)
	case rules.DeleteOutgoing:
		if len(e.IDs) == 0 {
			return nil
		}
		if err := x.r.Ledger.Delete(ctx, e.IDs); err != nil {
			return err
		}
		x.unlinkOutgoing(e.IDs)
	case rules.SetDates:
		x.c.ETD, x.c.ETA, x.c.ETM, x.c.RDV = e.Dates.ETD, e.Dates.ETA, e.Dates.ETM, e.Dates.RDV
	default:
		return fmt.Errorf("efecto no soportado: %T", e)
	}
	return nil
}

func (x *executor) linkOutgoing(id string) {
	x.created = append(x.created, id)
	x.c.OutgoingMoveIDs = append(x.c.OutgoingMoveIDs, id)
}

func (x *executor) unlinkOutgoing(ids []string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := x.c.OutgoingMoveIDs[:0:0]
	for _, id := range x.c.OutgoingMoveIDs {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	x.c.OutgoingMoveIDs = kept
}

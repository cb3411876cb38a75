package container

import (
	"context"
	"fmt"

	"github.com/jhoicas/container-tracker/internal/application/dto"
	"github.com/jhoicas/container-tracker/internal/domain"
	rules "github.com/jhoicas/container-tracker/internal/domain/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// LinkIncoming modifica la colección de movimientos de entrada de un contenedor en borrador.
// Los movimientos añadidos deben pertenecer a un albarán de entrada abierto y no estar en otro contenedor.
func (uc *UseCase) LinkIncoming(ctx context.Context, id string, in dto.LinkIncomingRequest) (*dto.ContainerResponse, error) {
	ops := make([]rules.LinkOp, 0, len(in.Operations))
	for _, op := range in.Operations {
		ops = append(ops, rules.LinkOp{Kind: rules.LinkOpKind(op.Op), IDs: op.MoveIDs})
	}

	var resp *dto.ContainerResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		c, err := r.Containers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if c.State != entity.StateDraft {
			return domain.NewValidationError(c.ID, domain.RuleNotDraft,
				"los movimientos de entrada solo se modifican en borrador")
		}
		linked, added, err := rules.ApplyLinkOps(c.IncomingMoveIDs, ops)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if err := checkEligible(ctx, r, c.ID, added); err != nil {
			return err
		}
		c.IncomingMoveIDs = linked
		c.UpdatedAt = uc.now()
		if err := r.Containers.Update(ctx, c); err != nil {
			return err
		}
		resp, err = buildResponse(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func checkEligible(ctx context.Context, r Repos, containerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	moves, err := r.Ledger.Read(ctx, ids)
	if err != nil {
		return err
	}
	shipmentIDs := make([]string, 0, len(moves))
	for _, m := range moves {
		shipmentIDs = append(shipmentIDs, m.ShipmentID)
	}
	shipments, err := r.Shipments.GetByIDs(ctx, shipmentIDs)
	if err != nil {
		return err
	}
	for _, m := range moves {
		notEligible := func(reason string) error {
			return domain.NewValidationError(containerID, domain.RuleMoveNotEligible,
				fmt.Sprintf("movimiento %s: %s", m.ID, reason))
		}
		s, ok := shipments[m.ShipmentID]
		if !ok || s == nil || s.Kind != entity.ShipmentKindIn {
			return notEligible("no pertenece a un albarán de entrada")
		}
		if s.IsClosed() || m.State == entity.MoveDone || m.State == entity.MoveCancel {
			return notEligible("el albarán ya está hecho o cancelado")
		}
		if m.ContainerID != "" {
			return notEligible("es un movimiento de salida de un contenedor")
		}
		owner, err := r.Containers.FindByIncomingMove(ctx, m.ID)
		if err != nil {
			return err
		}
		if owner != "" && owner != containerID {
			return notEligible("ya está asignado al contenedor " + owner)
		}
	}
	return nil
}

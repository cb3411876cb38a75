package container

import (
	"context"
	"fmt"

	"github.com/jhoicas/container-tracker/internal/application/dto"
	"github.com/jhoicas/container-tracker/internal/domain"
	rules "github.com/jhoicas/container-tracker/internal/domain/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// ProcessPartial registra lo realmente embarcado en un contenedor en booking: fija cantidad y fecha
// en los movimientos de salida indicados, los marca hechos, recalcula las fechas y embarca el contenedor.
func (uc *UseCase) ProcessPartial(ctx context.Context, id string, in dto.PartialRequest) (*dto.TransitionResponse, error) {
	if len(in.Lines) == 0 || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.MoveID == "" || l.Quantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	now := uc.now()
	var res dto.TransitionResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		c, err := r.Containers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if c.State != entity.StateBooking {
			return domain.NewValidationError(c.ID, domain.RuleInvalidTransition,
				fmt.Sprintf("el envío parcial requiere estado booking (actual %s)", c.State))
		}

		outgoing, err := r.Ledger.Read(ctx, c.OutgoingMoveIDs)
		if err != nil {
			return err
		}
		pending := make(map[string]struct{}, len(outgoing))
		for _, m := range outgoing {
			if m.State != entity.MoveDone && m.State != entity.MoveCancel {
				pending[m.ID] = struct{}{}
			}
		}
		date := in.Date
		done := entity.MoveDone
		for _, l := range in.Lines {
			if _, ok := pending[l.MoveID]; !ok {
				return domain.NewValidationError(c.ID, domain.RuleUnknownMove,
					"movimiento "+l.MoveID+" no es una salida pendiente del contenedor")
			}
			qty := l.Quantity
			patch := entity.MovementPatch{Quantity: &qty, Date: &date, State: &done}
			if err := r.Ledger.Write(ctx, []string{l.MoveID}, patch); err != nil {
				return err
			}
		}

		if outgoing, err = r.Ledger.Read(ctx, c.OutgoingMoveIDs); err != nil {
			return err
		}
		product, err := r.Products.GetByID(ctx, c.ProductID)
		if err != nil {
			return err
		}
		// las fechas derivadas del embarque real sustituyen a las almacenadas
		dates := rules.ResolveDates(rules.DeriveDates(outgoing, product), rules.DatesOf(c), rules.Dates{})
		c.ETD, c.ETA, c.ETM, c.RDV = dates.ETD, dates.ETA, dates.ETM, dates.RDV

		res, err = uc.transition(ctx, r, c, rules.EventFreight, now)
		return err
	})
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			uc.log.Warn().Str("container_id", ve.ContainerID).Str("rule", ve.Rule).Msg(ve.Message)
		}
		return nil, err
	}
	uc.publish(ctx, rules.EventFreight, []dto.TransitionResponse{res}, now)
	return &res, nil
}

package container

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/container-tracker/internal/application/dto"
	"github.com/jhoicas/container-tracker/internal/domain"
	rules "github.com/jhoicas/container-tracker/internal/domain/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// Book reserva: draft → booking.
func (uc *UseCase) Book(ctx context.Context, ids []string) ([]dto.TransitionResponse, error) {
	return uc.Fire(ctx, rules.EventBook, ids)
}

// Freight embarca: booking → freight.
func (uc *UseCase) Freight(ctx context.Context, ids []string) ([]dto.TransitionResponse, error) {
	return uc.Fire(ctx, rules.EventFreight, ids)
}

// Clearance despacho de aduana: freight → clearance.
func (uc *UseCase) Clearance(ctx context.Context, ids []string) ([]dto.TransitionResponse, error) {
	return uc.Fire(ctx, rules.EventClearance, ids)
}

// Approach llegada a destino: clearance → approaching.
func (uc *UseCase) Approach(ctx context.Context, ids []string) ([]dto.TransitionResponse, error) {
	return uc.Fire(ctx, rules.EventApproach, ids)
}

// Unpack descarga: approaching → unpacking.
func (uc *UseCase) Unpack(ctx context.Context, ids []string) ([]dto.TransitionResponse, error) {
	return uc.Fire(ctx, rules.EventUnpack, ids)
}

// Deliver entrega con conciliación de cantidades: unpacking → delivered.
func (uc *UseCase) Deliver(ctx context.Context, ids []string) ([]dto.TransitionResponse, error) {
	return uc.Fire(ctx, rules.EventDeliver, ids)
}

// Cancel cancela desde cualquier estado no terminal.
func (uc *UseCase) Cancel(ctx context.Context, ids []string) ([]dto.TransitionResponse, error) {
	return uc.Fire(ctx, rules.EventCancel, ids)
}

// RevertToDraft vuelve de booking a borrador eliminando los movimientos de salida.
func (uc *UseCase) RevertToDraft(ctx context.Context, ids []string) ([]dto.TransitionResponse, error) {
	return uc.Fire(ctx, rules.EventDraft, ids)
}

// Fire aplica event a todos los contenedores de ids en una sola transacción.
// Si alguno falla no queda ningún efecto visible y se devuelve el error de ese contenedor.
func (uc *UseCase) Fire(ctx context.Context, event rules.Event, ids []string) ([]dto.TransitionResponse, error) {
	if len(ids) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	var results []dto.TransitionResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		results = results[:0]
		for _, id := range ids {
			c, err := r.Containers.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("contenedor %s: %w", id, domain.ErrNotFound)
			}
			res, err := uc.transition(ctx, r, c, event, now)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			uc.log.Warn().Str("container_id", ve.ContainerID).Str("event", string(event)).
				Str("rule", ve.Rule).Msg(ve.Message)
		}
		return nil, err
	}
	uc.publish(ctx, event, results, now)
	return results, nil
}

// transition decide y ejecuta un evento sobre c dentro de la transacción r.
func (uc *UseCase) transition(ctx context.Context, r Repos, c *entity.Container, event rules.Event, now time.Time) (dto.TransitionResponse, error) {
	snap, err := loadSnapshot(ctx, r, c)
	if err != nil {
		return dto.TransitionResponse{}, err
	}
	d, err := rules.Decide(snap, event, now)
	if err != nil {
		return dto.TransitionResponse{}, err
	}
	if err := newExecutor(r, c).apply(ctx, d.Effects); err != nil {
		return dto.TransitionResponse{}, err
	}
	c.State = d.To
	c.UpdatedAt = now
	if err := r.Containers.Update(ctx, c); err != nil {
		return dto.TransitionResponse{}, err
	}
	if err := uc.pushDates.Push(ctx, r, c); err != nil {
		return dto.TransitionResponse{}, err
	}
	return dto.TransitionResponse{ContainerID: c.ID, From: string(d.From), To: string(d.To)}, nil
}

func (uc *UseCase) publish(ctx context.Context, event rules.Event, results []dto.TransitionResponse, at time.Time) {
	for _, res := range results {
		uc.log.Info().Str("container_id", res.ContainerID).Str("from", res.From).Str("to", res.To).
			Msg("transición de contenedor")
		if uc.publisher == nil {
			continue
		}
		evt := TransitionEvent{
			EventID:     uuid.New().String(),
			ContainerID: res.ContainerID,
			Event:       string(event),
			From:        res.From,
			To:          res.To,
			At:          at.UTC().Format(time.RFC3339),
		}
		if err := uc.publisher.Publish(ctx, res.ContainerID, evt); err != nil {
			uc.log.Error().Err(err).Str("container_id", res.ContainerID).Msg("no se pudo publicar el evento de transición")
		}
	}
}

// loadSnapshot resuelve desde los repositorios todo lo que Decide necesita leer.
func loadSnapshot(ctx context.Context, r Repos, c *entity.Container) (rules.Snapshot, error) {
	snap := rules.Snapshot{Container: c}
	var err error
	if snap.ContainerProduct, err = r.Products.GetByID(ctx, c.ProductID); err != nil {
		return snap, err
	}
	if snap.StockLocation, err = r.Locations.GetByID(ctx, c.StockLocationID); err != nil {
		return snap, err
	}
	if snap.DestinationWarehouse, err = r.Warehouses.GetByID(ctx, c.DestinationWarehouseID); err != nil {
		return snap, err
	}
	if snap.Incoming, err = r.Ledger.Read(ctx, c.IncomingMoveIDs); err != nil {
		return snap, err
	}
	if snap.Outgoing, err = r.Ledger.Read(ctx, c.OutgoingMoveIDs); err != nil {
		return snap, err
	}
	shipmentIDs := make([]string, 0, len(snap.Incoming))
	for _, m := range snap.Incoming {
		if m.ShipmentID != "" {
			shipmentIDs = append(shipmentIDs, m.ShipmentID)
		}
	}
	if snap.Shipments, err = r.Shipments.GetByIDs(ctx, shipmentIDs); err != nil {
		return snap, err
	}
	if snap.Products, err = r.Products.GetByIDs(ctx, productIDs(snap.Incoming, snap.Outgoing)); err != nil {
		return snap, err
	}
	return snap, nil
}

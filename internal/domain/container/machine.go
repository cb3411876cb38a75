package container

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/container-tracker/internal/domain"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// Event disparador de una transición del contenedor.
type Event string

const (
	EventBook      Event = "book"
	EventFreight   Event = "freight"
	EventClearance Event = "clearance"
	EventApproach  Event = "approach"
	EventUnpack    Event = "unpack"
	EventDeliver   Event = "deliver"
	EventCancel    Event = "cancel"
	EventDraft     Event = "draft" // vuelta de booking a borrador
)

// Events todos los eventos en orden del pipeline.
var Events = []Event{
	EventBook, EventFreight, EventClearance, EventApproach,
	EventUnpack, EventDeliver, EventCancel, EventDraft,
}

type edge struct {
	from []entity.ContainerState
	to   entity.ContainerState
}

var edges = map[Event]edge{
	EventBook:      {from: []entity.ContainerState{entity.StateDraft}, to: entity.StateBooking},
	EventFreight:   {from: []entity.ContainerState{entity.StateBooking}, to: entity.StateFreight},
	EventClearance: {from: []entity.ContainerState{entity.StateFreight}, to: entity.StateClearance},
	EventApproach:  {from: []entity.ContainerState{entity.StateClearance}, to: entity.StateApproaching},
	EventUnpack:    {from: []entity.ContainerState{entity.StateApproaching}, to: entity.StateUnpacking},
	EventDeliver:   {from: []entity.ContainerState{entity.StateUnpacking}, to: entity.StateDelivered},
	EventCancel: {from: []entity.ContainerState{
		entity.StateDraft, entity.StateBooking, entity.StateFreight,
		entity.StateClearance, entity.StateApproaching, entity.StateUnpacking,
	}, to: entity.StateCancel},
	EventDraft: {from: []entity.ContainerState{entity.StateBooking}, to: entity.StateDraft},
}

// ParseEvent convierte el nombre recibido por la API en Event.
func ParseEvent(s string) (Event, bool) {
	e := Event(strings.ToLower(strings.TrimSpace(s)))
	_, ok := edges[e]
	return e, ok
}

// Target estado destino del evento y si e es un evento conocido.
func Target(e Event) (entity.ContainerState, bool) {
	ed, ok := edges[e]
	return ed.to, ok
}

// CanFire indica si existe una arista para e desde el estado s.
func CanFire(s entity.ContainerState, e Event) bool {
	ed, ok := edges[e]
	if !ok {
		return false
	}
	for _, from := range ed.from {
		if from == s {
			return true
		}
	}
	return false
}

// Snapshot todo lo que la función de transición necesita leer, resuelto previamente desde el ledger.
type Snapshot struct {
	Container            *entity.Container
	ContainerProduct     *entity.Product
	StockLocation        *entity.Location
	DestinationWarehouse *entity.Warehouse
	Incoming             []*entity.Movement
	Outgoing             []*entity.Movement
	Shipments            map[string]*entity.Shipment // albaranes de los movimientos de entrada
	Products             map[string]*entity.Product  // productos de los movimientos
}

// Decision resultado de una transición válida.
type Decision struct {
	From    entity.ContainerState
	To      entity.ContainerState
	Effects []Effect
}

// Decide es la función de transición pura (estado, evento, contexto) → (nuevo estado, efectos).
// No toca el ledger: los efectos se devuelven como datos. now se usa para las reglas de fechas.
func Decide(snap Snapshot, event Event, now time.Time) (Decision, error) {
	c := snap.Container
	if c == nil {
		return Decision{}, domain.ErrNotFound
	}
	ed, ok := edges[event]
	if !ok || !CanFire(c.State, event) {
		return Decision{}, domain.NewValidationError(c.ID, domain.RuleInvalidTransition,
			fmt.Sprintf("no se puede aplicar %q desde el estado %q", event, c.State))
	}

	var effects []Effect
	var err error
	switch event {
	case EventBook:
		effects, err = decideBook(snap)
	case EventFreight:
		effects, err = decideFreight(snap, now)
	case EventClearance:
	case EventApproach:
		effects, err = decideApproach(snap, now)
	case EventUnpack:
		effects, err = decideUnpack(snap, now)
	case EventDeliver:
		effects, err = decideDeliver(snap, now)
	case EventCancel:
		err = decideCancel(snap)
	case EventDraft:
		effects = []Effect{DeleteOutgoing{IDs: moveIDs(snap.Outgoing)}}
	}
	if err != nil {
		return Decision{}, err
	}
	return Decision{From: c.State, To: ed.to, Effects: effects}, nil
}

func decideBook(snap Snapshot) ([]Effect, error) {
	c := snap.Container
	required := RequiredLocationUsage(c.IncotermCode)
	if snap.StockLocation == nil || snap.StockLocation.Usage != required {
		return nil, domain.NewValidationError(c.ID, domain.RuleLocationUsage,
			"la ubicación de stock del contenedor debe ser de proveedor")
	}
	metrics := ComputeMetrics(snap.ContainerProduct, snap.Incoming, snap.Products)
	if metrics.RemainingVolume.IsNegative() {
		return nil, domain.NewValidationError(c.ID, domain.RuleRemainingVolume,
			"el volumen restante debe ser positivo")
	}
	if len(snap.Incoming) == 0 {
		return nil, domain.NewValidationError(c.ID, domain.RuleNoIncoming,
			"debe seleccionar movimientos de entrada antes de reservar")
	}
	if c.PartnerID == "" {
		return nil, domain.NewValidationError(c.ID, domain.RulePartnerRequired, "el transportista es obligatorio")
	}
	if c.AddressID == "" {
		return nil, domain.NewValidationError(c.ID, domain.RuleAddressRequired, "la dirección de recogida es obligatoria")
	}
	if c.SSCC == "" {
		return nil, domain.NewValidationError(c.ID, domain.RuleSSCCRequired, "el SSCC es obligatorio al reservar")
	}
	if err := ValidateSSCC(c.ID, c.SSCC); err != nil {
		return nil, err
	}

	draft := entity.MoveDraft
	noShipment := ""
	containerID := c.ID
	stockLocation := c.StockLocationID
	effects := make([]Effect, 0, len(snap.Incoming)+2)
	for _, m := range snap.Incoming {
		src := m.ID
		effects = append(effects, CopyOutgoing{
			SourceID: src,
			Overrides: entity.MovementPatch{
				State:          &draft,
				ShipmentID:     &noShipment,
				ContainerID:    &containerID,
				LocationDestID: &stockLocation,
				DestMoveID:     &src,
			},
		})
	}
	effects = append(effects, WriteMoves{
		IDs:   moveIDs(snap.Incoming),
		Patch: entity.MovementPatch{LocationID: &stockLocation},
	})

	// Las copias conservan la fecha del movimiento de entrada, así que derivar sobre las entradas
	// da el mismo resultado que derivar sobre las salidas que se van a crear.
	if e, ok := fillDates(c, DeriveDates(snap.Incoming, snap.ContainerProduct)); ok {
		effects = append(effects, e)
	}
	return effects, nil
}

func decideFreight(snap Snapshot, now time.Time) ([]Effect, error) {
	c := snap.Container
	dates := ResolveDates(Dates{}, DatesOf(c), DeriveDates(snap.Outgoing, snap.ContainerProduct))
	if dates.ETD == nil {
		return nil, domain.NewValidationError(c.ID, domain.RuleDepartureRequired, "la fecha de salida es obligatoria")
	}
	if isFutureDay(*dates.ETD, now) {
		return nil, domain.NewValidationError(c.ID, domain.RuleDepartureInFuture,
			"la fecha de salida no puede estar en el futuro")
	}
	effects := []Effect{MarkDone{IDs: moveIDs(snap.Outgoing)}}
	if e, ok := fillDates(c, dates); ok {
		effects = append(effects, e)
	}
	return effects, nil
}

func decideApproach(snap Snapshot, now time.Time) ([]Effect, error) {
	c := snap.Container
	dates := ResolveDates(Dates{}, DatesOf(c), DeriveDates(snap.Outgoing, snap.ContainerProduct))
	if dates.ETA == nil {
		return nil, domain.NewValidationError(c.ID, domain.RuleArrivalRequired, "la fecha de llegada es obligatoria")
	}
	if isFutureDay(*dates.ETA, now) {
		return nil, domain.NewValidationError(c.ID, domain.RuleArrivalInFuture,
			"la fecha de llegada no puede estar en el futuro")
	}
	var effects []Effect
	if e, ok := fillDates(c, dates); ok {
		effects = append(effects, e)
	}
	return effects, nil
}

func decideUnpack(snap Snapshot, now time.Time) ([]Effect, error) {
	c := snap.Container
	dates := ResolveDates(Dates{}, DatesOf(c), DeriveDates(snap.Outgoing, snap.ContainerProduct))
	if dates.RDV == nil {
		return nil, domain.NewValidationError(c.ID, domain.RuleRendezvousRequired, "la cita de entrega es obligatoria")
	}
	if dates.RDV.Before(now) {
		return nil, domain.NewValidationError(c.ID, domain.RuleRendezvousInPast,
			"la cita de entrega no puede estar en el pasado")
	}
	var effects []Effect
	if e, ok := fillDates(c, dates); ok {
		effects = append(effects, e)
	}
	return effects, nil
}

func decideDeliver(snap Snapshot, now time.Time) ([]Effect, error) {
	c := snap.Container
	in := AggregateByProduct(snap.Incoming)
	out := AggregateByProduct(snap.Outgoing)

	if over := Shortfall(out, in); len(over) > 0 {
		parts := make([]string, 0, len(over))
		for _, p := range over.Products() {
			parts = append(parts, fmt.Sprintf("%s: %s", p, over[p].String()))
		}
		return nil, domain.NewValidationError(c.ID, domain.RuleOverShipment,
			"la cantidad de salida supera la de entrada ("+strings.Join(parts, ", ")+")")
	}

	var effects []Effect
	leftover := Shortfall(in, out)
	if len(leftover) > 0 {
		date := DateOnly(now)
		if c.ETM != nil {
			date = *c.ETM
		}
		dest := ""
		if snap.DestinationWarehouse != nil {
			dest = snap.DestinationWarehouse.InputLocationID
		}
		for _, productID := range leftover.Products() {
			mv := entity.Movement{
				Name:           productID,
				ProductID:      productID,
				Quantity:       leftover[productID],
				LocationID:     c.StockLocationID,
				LocationDestID: dest,
				ContainerID:    c.ID,
				State:          entity.MoveDraft,
			}
			if p, ok := snap.Products[productID]; ok && p != nil {
				mv.Name = p.Name
				mv.UomID = p.UomID
			}
			d := date
			mv.Date = &d
			effects = append(effects, CreateOutgoing{Move: mv})
		}
	}
	effects = append(effects, MarkDone{IDs: moveIDs(snap.Outgoing), IncludeCreated: true})
	return effects, nil
}

func decideCancel(snap Snapshot) error {
	c := snap.Container
	var active []string
	for _, m := range snap.Incoming {
		s, ok := snap.Shipments[m.ShipmentID]
		if !ok || s == nil || s.State != entity.ShipmentCancel {
			active = append(active, m.ID)
		}
	}
	if len(active) > 0 {
		return domain.NewValidationError(c.ID, domain.RuleShipmentsNotCancelled,
			"los albaranes de entrada no están cancelados (movimientos: "+strings.Join(active, ", ")+")")
	}
	return nil
}

// fillDates devuelve un SetDates con las fechas que faltan en el contenedor, si alguna cambia.
func fillDates(c *entity.Container, candidate Dates) (Effect, bool) {
	stored := DatesOf(c)
	resolved := ResolveDates(Dates{}, stored, candidate)
	if resolved.Equal(stored) {
		return nil, false
	}
	return SetDates{Dates: resolved}, true
}

func isFutureDay(t, now time.Time) bool {
	return DateOnly(t.In(now.Location())).After(DateOnly(now))
}

func moveIDs(moves []*entity.Movement) []string {
	ids := make([]string, 0, len(moves))
	for _, m := range moves {
		if m != nil {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

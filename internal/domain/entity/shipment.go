package entity

import "time"

// Tipos de albarán (picking).
const (
	ShipmentKindIn  = "in"
	ShipmentKindOut = "out"
)

// ShipmentState estado del albarán que agrupa movimientos.
type ShipmentState string

const (
	ShipmentDraft     ShipmentState = "draft"
	ShipmentConfirmed ShipmentState = "confirmed"
	ShipmentAssigned  ShipmentState = "assigned"
	ShipmentDone      ShipmentState = "done"
	ShipmentCancel    ShipmentState = "cancel"
)

// Shipment albarán externo (recepción o entrega) que agrupa movimientos.
type Shipment struct {
	ID          string
	Name        string
	Kind        string // in, out
	State       ShipmentState
	PlannedDate *time.Time
	ContainerID string
}

// IsClosed indica si el albarán ya no admite cambios (hecho o cancelado).
func (s *Shipment) IsClosed() bool {
	return s.State == ShipmentDone || s.State == ShipmentCancel
}

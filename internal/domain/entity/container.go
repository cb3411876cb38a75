package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContainerState estado del ciclo de vida de un contenedor.
type ContainerState string

// Estados del contenedor (pipeline lineal con rama a cancelado).
const (
	StateDraft       ContainerState = "draft"
	StateBooking     ContainerState = "booking"
	StateFreight     ContainerState = "freight"
	StateClearance   ContainerState = "clearance"
	StateApproaching ContainerState = "approaching"
	StateUnpacking   ContainerState = "unpacking"
	StateDelivered   ContainerState = "delivered"
	StateCancel      ContainerState = "cancel"
)

// Valid indica si el estado pertenece al conjunto conocido.
func (s ContainerState) Valid() bool {
	switch s {
	case StateDraft, StateBooking, StateFreight, StateClearance,
		StateApproaching, StateUnpacking, StateDelivered, StateCancel:
		return true
	}
	return false
}

// IsTerminal: entregado o cancelado, el contenedor queda como registro histórico.
func (s ContainerState) IsTerminal() bool {
	return s == StateDelivered || s == StateCancel
}

// Container agregado raíz: una unidad física de transporte y sus movimientos asociados.
// Las colecciones de movimientos se guardan solo como IDs; el ledger es dueño de los registros.
type Container struct {
	ID                     string
	Name                   string
	SSCC                   string // Serial Shipping Container Code (18 dígitos), obligatorio desde booking
	ProductID              string // producto que representa el tipo de contenedor (define el volumen)
	IncotermCode           string
	PartnerID              string // transportista / agente de carga
	AddressID              string // dirección de recogida
	StockLocationID        string // ubicación que representa el contenido del contenedor
	DestinationWarehouseID string
	ETD                    *time.Time // salida
	ETA                    *time.Time // llegada
	ETM                    *time.Time // disponible para mercado
	RDV                    *time.Time // cita de entrega (fecha y hora)
	IncomingMoveIDs        []string
	OutgoingMoveIDs        []string
	State                  ContainerState
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Clone copia profunda (las listas y fechas no se comparten).
func (c *Container) Clone() *Container {
	if c == nil {
		return nil
	}
	cp := *c
	cp.ETD = cloneTime(c.ETD)
	cp.ETA = cloneTime(c.ETA)
	cp.ETM = cloneTime(c.ETM)
	cp.RDV = cloneTime(c.RDV)
	cp.IncomingMoveIDs = append([]string(nil), c.IncomingMoveIDs...)
	cp.OutgoingMoveIDs = append([]string(nil), c.OutgoingMoveIDs...)
	return &cp
}

// ContainerMetrics valores derivados; nunca se persisten.
type ContainerMetrics struct {
	Weight          decimal.Decimal
	Volume          decimal.Decimal
	RemainingVolume decimal.Decimal
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

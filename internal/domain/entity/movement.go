package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveState estado de un movimiento del ledger.
type MoveState string

const (
	MoveDraft     MoveState = "draft"
	MoveConfirmed MoveState = "confirmed"
	MoveDone      MoveState = "done"
	MoveCancel    MoveState = "cancel"
)

// Movement movimiento de mercancía (entidad externa, referenciada por ID desde el contenedor).
// Date es la fecha planificada o real según el estado; nil si falta o no se pudo interpretar.
type Movement struct {
	ID             string
	Name           string
	ProductID      string
	Quantity       decimal.Decimal
	UomID          string
	LocationID     string // origen
	LocationDestID string // destino
	ShipmentID     string
	ContainerID    string // contenedor dueño (movimientos de salida)
	DestMoveID     string // movimiento sucesor en la cadena
	State          MoveState
	Date           *time.Time
	CreatedAt      time.Time
}

// Clone copia el movimiento sin compartir la fecha.
func (m *Movement) Clone() *Movement {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Date = cloneTime(m.Date)
	return &cp
}

// MovementFilter criterios de búsqueda en el ledger. Campos vacíos no filtran.
type MovementFilter struct {
	ContainerID string
	ShipmentID  string
	ProductID   string
	States      []MoveState
}

// MovementPatch escritura parcial sobre uno o varios movimientos. Solo se aplican los campos no nil.
type MovementPatch struct {
	Quantity       *decimal.Decimal
	LocationID     *string
	LocationDestID *string
	ShipmentID     *string
	ContainerID    *string
	DestMoveID     *string
	State          *MoveState
	Date           *time.Time
}

// Apply aplica el patch sobre m.
func (p MovementPatch) Apply(m *Movement) {
	if p.Quantity != nil {
		m.Quantity = *p.Quantity
	}
	if p.LocationID != nil {
		m.LocationID = *p.LocationID
	}
	if p.LocationDestID != nil {
		m.LocationDestID = *p.LocationDestID
	}
	if p.ShipmentID != nil {
		m.ShipmentID = *p.ShipmentID
	}
	if p.ContainerID != nil {
		m.ContainerID = *p.ContainerID
	}
	if p.DestMoveID != nil {
		m.DestMoveID = *p.DestMoveID
	}
	if p.State != nil {
		m.State = *p.State
	}
	if p.Date != nil {
		d := *p.Date
		m.Date = &d
	}
}

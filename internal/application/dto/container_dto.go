package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateContainerRequest entrada para crear un contenedor en borrador.
type CreateContainerRequest struct {
	Name                   string     `json:"name" validate:"required,min=1,max=200"`
	SSCC                   string     `json:"sscc,omitempty"`
	ProductID              string     `json:"product_id" validate:"required"`
	IncotermCode           string     `json:"incoterm" validate:"required"`
	PartnerID              string     `json:"partner_id,omitempty"`
	AddressID              string     `json:"address_id,omitempty"`
	StockLocationID        string     `json:"stock_location_id" validate:"required"`
	DestinationWarehouseID string     `json:"destination_warehouse_id" validate:"required"`
	ETD                    *time.Time `json:"etd,omitempty"`
	ETA                    *time.Time `json:"eta,omitempty"`
	ETM                    *time.Time `json:"etm,omitempty"`
	RDV                    *time.Time `json:"rdv,omitempty"`
}

// UpdateContainerRequest escritura parcial. Los campos nil no se tocan.
type UpdateContainerRequest struct {
	Name                   *string    `json:"name,omitempty"`
	SSCC                   *string    `json:"sscc,omitempty"`
	ProductID              *string    `json:"product_id,omitempty"`
	IncotermCode           *string    `json:"incoterm,omitempty"`
	PartnerID              *string    `json:"partner_id,omitempty"`
	AddressID              *string    `json:"address_id,omitempty"`
	StockLocationID        *string    `json:"stock_location_id,omitempty"`
	DestinationWarehouseID *string    `json:"destination_warehouse_id,omitempty"`
	ETD                    *time.Time `json:"etd,omitempty"`
	ETA                    *time.Time `json:"eta,omitempty"`
	ETM                    *time.Time `json:"etm,omitempty"`
	RDV                    *time.Time `json:"rdv,omitempty"`
}

// ContainerResponse salida de un contenedor con sus métricas derivadas.
type ContainerResponse struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	State                  string          `json:"state"`
	SSCC                   string          `json:"sscc,omitempty"`
	ProductID              string          `json:"product_id"`
	IncotermCode           string          `json:"incoterm"`
	PartnerID              string          `json:"partner_id,omitempty"`
	AddressID              string          `json:"address_id,omitempty"`
	StockLocationID        string          `json:"stock_location_id"`
	DestinationWarehouseID string          `json:"destination_warehouse_id"`
	ETD                    *time.Time      `json:"etd,omitempty"`
	ETA                    *time.Time      `json:"eta,omitempty"`
	ETM                    *time.Time      `json:"etm,omitempty"`
	RDV                    *time.Time      `json:"rdv,omitempty"`
	IncomingMoveIDs        []string        `json:"incoming_move_ids"`
	OutgoingMoveIDs        []string        `json:"outgoing_move_ids"`
	Weight                 decimal.Decimal `json:"weight"`
	Volume                 decimal.Decimal `json:"volume"`
	RemainingVolume        decimal.Decimal `json:"remaining_volume"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// ContainerListResponse lista paginada de contenedores.
type ContainerListResponse struct {
	Items []ContainerResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// DerivedDatesResponse fechas calculadas desde los movimientos de salida (no se persisten).
type DerivedDatesResponse struct {
	ETD *time.Time `json:"etd"`
	ETA *time.Time `json:"eta"`
	ETM *time.Time `json:"etm"`
	RDV *time.Time `json:"rdv"`
}

// LinkOperation operación sobre los movimientos de entrada: add, remove o replace.
type LinkOperation struct {
	Op      string   `json:"op"`
	MoveIDs []string `json:"move_ids"`
}

// LinkIncomingRequest body para POST /api/containers/:id/incoming.
type LinkIncomingRequest struct {
	Operations []LinkOperation `json:"operations"`
}

// PartialLine cantidad realmente embarcada de un movimiento de salida.
type PartialLine struct {
	MoveID   string          `json:"move_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// PartialRequest body para POST /api/containers/:id/partial.
type PartialRequest struct {
	Date  time.Time     `json:"date"`
	Lines []PartialLine `json:"lines"`
}

// ContainerIDsRequest lote de contenedores para transiciones y borrado.
type ContainerIDsRequest struct {
	IDs []string `json:"ids"`
}

// TransitionResponse resultado de una transición por contenedor.
type TransitionResponse struct {
	ContainerID string `json:"container_id"`
	From        string `json:"from"`
	To          string `json:"to"`
}

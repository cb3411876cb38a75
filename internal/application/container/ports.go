package container

import (
	"context"

	"github.com/jhoicas/container-tracker/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Containers repository.ContainerRepository
	Ledger     repository.MovementLedger
	Shipments  repository.ShipmentRepository
	Products   repository.ProductRepository
	Locations  repository.LocationRepository
	Warehouses repository.WarehouseRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún efecto queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// EventPublisher publica eventos de transición una vez confirmada la transacción.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// TransitionEvent mensaje emitido por cada contenedor que cambia de estado.
type TransitionEvent struct {
	EventID     string `json:"event_id"`
	ContainerID string `json:"container_id"`
	Event       string `json:"event"`
	From        string `json:"from"`
	To          string `json:"to"`
	At          string `json:"at"`
}

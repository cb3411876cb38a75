package repository

import (
	"context"
	"time"

	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// ShipmentRepository puerto para los albaranes que agrupan movimientos.
type ShipmentRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Shipment, error)
	UpdatePlannedDate(ctx context.Context, id string, date time.Time) error
}

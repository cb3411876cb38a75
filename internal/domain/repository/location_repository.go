package repository

import (
	"context"

	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// LocationRepository puerto de lectura de ubicaciones de stock.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}

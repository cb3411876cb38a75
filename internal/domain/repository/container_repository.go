package repository

import (
	"context"

	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// ContainerRepository define el puerto de persistencia para Container (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ContainerRepository interface {
	Create(ctx context.Context, container *entity.Container) error
	GetByID(ctx context.Context, id string) (*entity.Container, error)
	// GetForUpdate obtiene el contenedor bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Container, error)
	Update(ctx context.Context, container *entity.Container) error
	List(ctx context.Context, state entity.ContainerState, limit, offset int) ([]*entity.Container, error)
	Delete(ctx context.Context, id string) error
	// FindByIncomingMove devuelve el ID del contenedor que tiene el movimiento como entrada ("" si ninguno).
	FindByIncomingMove(ctx context.Context, moveID string) (string, error)
}

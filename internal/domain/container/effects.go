package container

import (
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// Effect efecto sobre el ledger o el contenedor que produce una transición.
// Decide no ejecuta nada: devuelve la lista y el ejecutor de la capa de aplicación la aplica en orden.
type Effect interface {
	effect()
}

// CopyOutgoing crea un movimiento de salida copiando SourceID con Overrides aplicado.
type CopyOutgoing struct {
	SourceID  string
	Overrides entity.MovementPatch
}

// CreateOutgoing crea un movimiento de salida nuevo enlazado al contenedor.
type CreateOutgoing struct {
	Move entity.Movement
}

// WriteMoves escribe Patch sobre los movimientos IDs.
type WriteMoves struct {
	IDs   []string
	Patch entity.MovementPatch
}

// MarkDone pasa a "done" los movimientos IDs y, si IncludeCreated, los creados por la misma transición.
type MarkDone struct {
	IDs            []string
	IncludeCreated bool
}

// DeleteOutgoing elimina movimientos de salida y los quita de la colección del contenedor.
type DeleteOutgoing struct {
	IDs []string
}

// SetDates persiste fechas en el contenedor.
type SetDates struct {
	Dates Dates
}

func (CopyOutgoing) effect()   {}
func (CreateOutgoing) effect() {}
func (WriteMoves) effect()     {}
func (MarkDone) effect()       {}
func (DeleteOutgoing) effect() {}
func (SetDates) effect()       {}

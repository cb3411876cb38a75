package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrPrecondition      = errors.New("precondición de transición no cumplida")
	ErrInvalidTransition = errors.New("transición no permitida desde el estado actual")
	ErrOverShipment      = errors.New("cantidad de salida superior a la de entrada")
	ErrNotDraft          = errors.New("el contenedor debe estar en borrador")
)

// Reglas de validación (códigos estables para el cliente).
const (
	RuleInvalidTransition     = "INVALID_TRANSITION"
	RuleLocationUsage         = "LOCATION_NOT_SUPPLIER"
	RuleRemainingVolume       = "REMAINING_VOLUME_NEGATIVE"
	RuleNoIncoming            = "NO_INCOMING_MOVES"
	RulePartnerRequired       = "PARTNER_REQUIRED"
	RuleAddressRequired       = "ADDRESS_REQUIRED"
	RuleSSCCRequired          = "SSCC_REQUIRED"
	RuleSSCCFormat            = "SSCC_FORMAT"
	RuleDepartureRequired     = "DEPARTURE_DATE_REQUIRED"
	RuleDepartureInFuture     = "DEPARTURE_DATE_IN_FUTURE"
	RuleArrivalRequired       = "ARRIVAL_DATE_REQUIRED"
	RuleArrivalInFuture       = "ARRIVAL_DATE_IN_FUTURE"
	RuleRendezvousRequired    = "RDV_REQUIRED"
	RuleRendezvousInPast      = "RDV_IN_PAST"
	RuleOverShipment          = "OUTGOING_EXCEEDS_INCOMING"
	RuleShipmentsNotCancelled = "SHIPMENTS_NOT_CANCELLED"
	RuleNotDraft              = "NOT_DRAFT"
	RuleFieldLocked           = "FIELD_LOCKED"
	RuleMoveNotEligible       = "MOVE_NOT_ELIGIBLE"
	RuleUnknownMove           = "UNKNOWN_MOVE"
	RuleIncoterm              = "UNKNOWN_INCOTERM"
)

// ValidationError describe una regla de negocio violada sobre un contenedor concreto.
// Unwrap devuelve el error centinela de la familia para usar con errors.Is.
type ValidationError struct {
	ContainerID string
	Rule        string
	Message     string
}

// NewValidationError construye el error de validación.
func NewValidationError(containerID, rule, message string) *ValidationError {
	return &ValidationError{ContainerID: containerID, Rule: rule, Message: message}
}

func (e *ValidationError) Error() string {
	if e.ContainerID == "" {
		return fmt.Sprintf("%s: %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("contenedor %s: %s: %s", e.ContainerID, e.Rule, e.Message)
}

func (e *ValidationError) Unwrap() error {
	switch e.Rule {
	case RuleInvalidTransition:
		return ErrInvalidTransition
	case RuleOverShipment:
		return ErrOverShipment
	case RuleNotDraft:
		return ErrNotDraft
	case RuleSSCCFormat, RuleIncoterm:
		return ErrInvalidInput
	}
	return ErrPrecondition
}

// AsValidation extrae un *ValidationError de la cadena de errores.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
